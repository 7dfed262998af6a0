package restapi

import (
	"net/http"
	"strings"
)

// Sent on every response.
var securityHeaderValues = [...][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Strict-Transport-Security", "max-age=31536000; includeSubDomains"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';"},
}

const (
	corsAllowedHeaders = "Content-Type, " + requestIDHeader
	corsMaxAge         = "86400"
)

// corsPolicy decides which browser origins may read the API. A "*" entry
// admits every origin; no entries disable CORS.
type corsPolicy struct {
	anyOrigin bool
	origins   map[string]bool
	methods   string
}

func newCORSPolicy(origins, methods []string) corsPolicy {
	policy := corsPolicy{
		origins: make(map[string]bool, len(origins)),
		methods: strings.Join(methods, ", "),
	}
	for _, origin := range origins {
		if origin == "*" {
			policy.anyOrigin = true
			continue
		}
		policy.origins[strings.TrimSuffix(origin, "/")] = true
	}
	return policy
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, if any.
func (p corsPolicy) allowOrigin(origin string) (string, bool) {
	switch {
	case origin == "":
		return "", false
	case p.anyOrigin:
		return "*", true
	case p.origins[origin]:
		return origin, true
	default:
		return "", false
	}
}

// WithSecurityHeaders wraps handler with the security headers and the CORS
// policy built from the configured origins and the registered routes.
func (api *RestAPI) WithSecurityHeaders(handler http.Handler) http.Handler {
	return securityHeaders(newCORSPolicy(api.Config.AllowedOrigins, api.allowedMethods()), handler)
}

func securityHeaders(policy corsPolicy, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		for _, kv := range securityHeaderValues {
			header.Set(kv[0], kv[1])
		}

		allowed, ok := policy.allowOrigin(r.Header.Get("Origin"))
		if ok {
			header.Set("Access-Control-Allow-Origin", allowed)
			header.Set("Access-Control-Allow-Methods", policy.methods)
			header.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			header.Set("Access-Control-Max-Age", corsMaxAge)
			if allowed != "*" {
				header.Add("Vary", "Origin")
			}
		}

		// Preflight from an admitted origin ends here; anything else reaches
		// the router, which answers OPTIONS itself.
		if r.Method == http.MethodOptions && ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
