package restapi

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"transitcatalogue.dev/internal/appconf"
)

type middleware func(http.Handler) http.HandlerFunc

// newCompression returns gzip middleware for cfg. An unset config uses the
// server defaults.
func newCompression(cfg appconf.CompressionConfig) (middleware, error) {
	if cfg == (appconf.CompressionConfig{}) {
		cfg = appconf.Default().Compression
	}

	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(cfg.MinSize),
		gzhttp.CompressionLevel(cfg.Level),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid compression settings (level %d, min size %d): %w", cfg.Level, cfg.MinSize, err)
	}
	return wrapper, nil
}
