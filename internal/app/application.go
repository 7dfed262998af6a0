package app

import (
	"log/slog"

	"transitcatalogue.dev/internal/appconf"
	"transitcatalogue.dev/internal/transit"
)

// Application holds the dependencies shared by the HTTP handlers, helpers
// and middleware.
type Application struct {
	Config  appconf.Config
	Logger  *slog.Logger
	Manager *transit.Manager
}
