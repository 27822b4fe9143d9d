// Package main is the entrypoint for the osu! stats image server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/osustats/osustats/internal/app"
	"github.com/osustats/osustats/internal/config"
	"github.com/osustats/osustats/internal/handler"
	"github.com/osustats/osustats/internal/logging"
	"github.com/osustats/osustats/internal/metrics"
	"github.com/osustats/osustats/internal/middleware"
	"github.com/osustats/osustats/internal/server"
)

func main() {
	ctx := context.Background()

	config.LoadDotenv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	recorder := metrics.NewPrometheus()

	a, err := app.Build(ctx, cfg, logger, recorder)
	if err != nil {
		logger.Error("failed to initialise pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	h := handler.New(a.Generator, a.Composer.OutputPath(), recorder, logger)

	var cacheChecker handler.HealthChecker
	if a.Cache != nil {
		cacheChecker = a.Cache
	}
	healthHandler := handler.NewHealthHandler(a.Composer, cacheChecker)

	r := setupRouter(h, healthHandler, recorder.Handler(), cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("status store", a.Close)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"user_id", cfg.UserID,
		"mode", cfg.Mode,
		"output_path", cfg.OutputPath,
		"breaker", a.Breaker.State(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	metricsHandler http.Handler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))

	// Health checks and metrics
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Get("/", h.Home)
	r.With(middleware.RateLimitByIP(cfg.RateLimitGeneratePerMinute)).Get("/generate", h.Generate)
	r.Get("/stats_image.png", h.Image)
	r.Get("/status", h.Status)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
