package restapi

import (
	"net/http"
	"sort"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

type endpoint struct {
	method  string
	path    string
	handler handlerFunc
}

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// protected checks the API key, then applies the per-key rate limit.
func (api *RestAPI) protected(finalHandler handlerFunc) http.Handler {
	if api.rateLimiter == nil {
		return validateAPIKey(api, finalHandler)
	}
	return validateAPIKey(api, api.rateLimiter.Handler(http.HandlerFunc(finalHandler)).ServeHTTP)
}

func (api *RestAPI) endpoints() []endpoint {
	return []endpoint{
		{http.MethodGet, "/api/where/current-time.json", api.currentTimeHandler},
		{http.MethodGet, "/api/where/statistics.json", api.statisticsHandler},
		{http.MethodGet, "/api/where/stops.json", api.stopsHandler},
		{http.MethodGet, "/api/where/stop/:id", api.stopHandler},
		{http.MethodGet, "/api/where/buses.json", api.busesHandler},
		{http.MethodGet, "/api/where/bus/:id", api.busHandler},
		{http.MethodGet, "/api/where/route.json", api.routeHandler},
		{http.MethodGet, "/api/where/map.svg", api.mapHandler},
		{http.MethodPost, "/api/stat-requests", api.statRequestsHandler},
	}
}

func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.NotFound = http.HandlerFunc(api.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(api.methodNotAllowedResponse)

	for _, ep := range api.endpoints() {
		router.Handler(ep.method, ep.path, api.protected(ep.handler))
	}
}

// allowedMethods lists the methods of the registered routes plus OPTIONS,
// sorted.
func (api *RestAPI) allowedMethods() []string {
	seen := map[string]bool{http.MethodOptions: true}
	for _, ep := range api.endpoints() {
		seen[ep.method] = true
	}

	methods := make([]string, 0, len(seen))
	for method := range seen {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Routes returns the API with its full middleware chain.
func (api *RestAPI) Routes() http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	return api.Wrap(router)
}

// Wrap applies security headers, request logging and compression to handler.
func (api *RestAPI) Wrap(handler http.Handler) http.Handler {
	handler = api.compress(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return api.WithSecurityHeaders(handler)
}
