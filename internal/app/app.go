// Package app wires the application together: configuration, logging,
// observability, the dataset store, services, middleware and the HTTP
// server, plus graceful shutdown.
package app

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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"cyberpulse/internal/config"
	"cyberpulse/internal/dataset"
	apierrors "cyberpulse/internal/errors"
	"cyberpulse/internal/infrastructure"
	"cyberpulse/internal/middleware"
	"cyberpulse/internal/services"
	httptransport "cyberpulse/internal/transport/http"
	"cyberpulse/pkg/contracts/domain"
)

// Version information, set at build time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Application holds all application dependencies.
type Application struct {
	config    *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	otel      *infrastructure.OTelProviders
	metrics   *infrastructure.BusinessMetrics
	store     *dataset.Store
	dashboard *services.DashboardService
	health    *services.HealthService
	server    *http.Server
}

// New creates a fully wired application. It loads configuration, opens
// the log sink, starts the OpenTelemetry providers and loads all four
// survey datasets into memory. A missing dataset file is fatal.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(otelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := dataset.NewLoader(logger).LoadAll(loadCtx, paths.DatasetFiles())
	if err != nil {
		if errors.Is(err, dataset.ErrDatasetFileMissing) {
			return nil, fmt.Errorf("dataset files must be present in %s: %w", paths.DataDir, err)
		}
		return nil, fmt.Errorf("failed to load datasets: %w", err)
	}
	for _, key := range domain.AllDatasetKeys() {
		metrics.RecordRowsLoaded(loadCtx, string(key), len(store.Table(key)))
	}

	logger.Info("datasets loaded",
		slog.Int("total_rows", len(store.Concat())),
		slog.Int("top_movers", len(store.TopMovers())))

	app := &Application{
		config:    cfg,
		paths:     paths,
		logger:    logger,
		otel:      otelProviders,
		metrics:   metrics,
		store:     store,
		dashboard: services.NewDashboardService(store, logger, metrics),
		health:    services.NewHealthService(Version, BuildTime, store, logger),
	}

	app.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        app.routes(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return app, nil
}

// routes builds the router with the full middleware chain.
func (app *Application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(app.logger))
	r.Use(middleware.Metrics(app.metrics))
	r.Use(middleware.Recoverer(app.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Compress(5))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	if app.config.Security.EnableCORS {
		r.Use(middleware.CORS(middleware.CORSConfig{
			AllowedOrigins: app.config.Security.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	if app.config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			app.config.Security.RateLimit.RPS,
			app.config.Security.RateLimit.Burst,
			app.logger,
		)
		r.Use(limiter.Handler)
	}

	errorHandler := apierrors.NewErrorHandler(app.logger, false)
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	dashboardHandler := httptransport.NewDashboardHandler(app.dashboard, app.logger, errorHandler)
	healthHandler := httptransport.NewHealthHandler(app.health, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})

	if app.otel.PrometheusHTTP != nil {
		r.Handle("/metrics", app.otel.PrometheusHTTP)
	}

	return r
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM, then
// shuts the server down within the configured timeout.
func (app *Application) Run() error {
	shutdownErr := make(chan error, 1)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit

		app.logger.Info("shutting down server", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		if err := app.otel.Shutdown(ctx); err != nil {
			app.logger.Error("otel shutdown failed", slog.String("error", err.Error()))
		}

		shutdownErr <- app.server.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		slog.String("addr", app.server.Addr),
		slog.String("version", Version),
		slog.String("data_dir", app.paths.DataDir))

	if err := app.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}

	app.logger.Info("server stopped")
	return nil
}
