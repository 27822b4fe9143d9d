// Package main runs one generation pass and exits.
// It suits cron jobs and CI schedules that refresh the image periodically.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/osustats/osustats/internal/app"
	"github.com/osustats/osustats/internal/config"
	"github.com/osustats/osustats/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.LoadDotenv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	a, err := app.Build(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to initialise pipeline", slog.String("error", err.Error()))
		return 1
	}
	defer a.Close(ctx)

	if _, err := a.Generator.Generate(ctx); err != nil {
		// The generator already logged the failed stage.
		return 1
	}

	fmt.Println("Image updated")
	return 0
}
