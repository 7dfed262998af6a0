package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"transitcatalogue.dev/internal/app"
	"transitcatalogue.dev/internal/appconf"
	"transitcatalogue.dev/internal/logging"
	"transitcatalogue.dev/internal/render"
	"transitcatalogue.dev/internal/restapi"
	"transitcatalogue.dev/internal/transit"
	"transitcatalogue.dev/internal/webui"
)

func main() {
	if err := appconf.LoadEnvFiles(".env", ".env.local"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := appconf.FromArgs(os.Args[1:], os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appconf.Config, logger *slog.Logger) error {
	manager, err := transit.InitManager(ctx, cfg.TransitConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize transit manager: %w", err)
	}

	if cfg.RenderSettingsPath != "" {
		settings, err := loadRenderSettings(cfg.RenderSettingsPath)
		if err != nil {
			return err
		}
		manager.SetRenderSettings(settings)
	}

	application := &app.Application{
		Config:  cfg,
		Logger:  logger,
		Manager: manager,
	}
	api := restapi.NewRestAPI(application)
	defer api.Shutdown()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      routes(api),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-serverErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server shut down")
	return nil
}

// routes mounts the REST API and, outside production, the debug pages.
func routes(api *restapi.RestAPI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	if api.Config.Env != appconf.Production {
		webUI := &webui.WebUI{Application: api.Application}
		webUI.SetWebUIRoutes(router)
	}
	return api.Wrap(router)
}

func loadRenderSettings(path string) (render.Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return render.Settings{}, fmt.Errorf("error reading render settings: %w", err)
	}
	settings, err := render.ParseSettings(raw)
	if err != nil {
		return render.Settings{}, fmt.Errorf("error parsing render settings %s: %w", path, err)
	}
	return settings, nil
}
