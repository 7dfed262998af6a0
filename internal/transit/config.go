package transit

import (
	"path"
	"strings"
	"time"

	"transitcatalogue.dev/internal/router"
)

type Config struct {
	// Source is a JSON network document or a GTFS static zip, given as a
	// local path or an http(s) URL.
	Source          string
	RoutingSettings router.Settings
	DownloadTimeout time.Duration
	Verbose         bool
}

func (config Config) isLocalFile() bool {
	return !strings.HasPrefix(config.Source, "http://") && !strings.HasPrefix(config.Source, "https://")
}

// isDocument reports whether the source is a JSON document rather than a GTFS feed.
func (config Config) isDocument() bool {
	p := config.Source
	if i := strings.IndexAny(p, "?#"); i >= 0 && !config.isLocalFile() {
		p = p[:i]
	}
	return strings.EqualFold(path.Ext(p), ".json")
}

func (config Config) downloadTimeout() time.Duration {
	if config.DownloadTimeout > 0 {
		return config.DownloadTimeout
	}
	return 60 * time.Second
}
