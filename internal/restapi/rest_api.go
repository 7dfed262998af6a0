package restapi

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"transitcatalogue.dev/internal/app"
	"transitcatalogue.dev/internal/logging"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	compress    middleware
}

// NewRestAPI creates a new RestAPI with its rate limiter and compression
// taken from the application config. Compression settings gzip rejects are
// logged and replaced by gzip's own defaults.
func NewRestAPI(app *app.Application) *RestAPI {
	compress, err := newCompression(app.Config.Compression)
	if err != nil {
		logging.LogError(app.Logger, "compression settings rejected", err,
			slog.Int("level", app.Config.Compression.Level),
			slog.Int("min_size", app.Config.Compression.MinSize))
		compress = gzhttp.GzipHandler
	}

	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		compress:    compress,
	}
}

// Shutdown stops background work started by NewRestAPI.
func (api *RestAPI) Shutdown() {
	if api.rateLimiter != nil {
		api.rateLimiter.Stop()
	}
}
