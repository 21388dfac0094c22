package main

import (
	"context"
	"os"
	"time"

	"financas/internal/cli"
	"financas/internal/config"
	"financas/internal/log"
	"financas/internal/services"
)

const defaultInterval = time.Hour

func main() {
	cfg := cli.LoadConfig((*config.Config).ValidateStore)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting overdue-worker")

	be := cli.InitBackend(context.Background(), logger, cfg)

	interval := cfg.OverdueInterval
	if interval <= 0 {
		interval = defaultInterval
	}
	// Cached reports live in the server process; it refreshes them on its
	// own TTL, so there is nothing to invalidate here.
	processor := services.NewOverdueProcessor(be.Store, nil, services.OverdueProcessorConfig{Interval: interval})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := processor.Stop(shutdownCtx); err != nil {
			logger.Warn("Overdue processor stop error", log.FieldError, err)
		}
		if err := be.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start overdue processor", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Overdue processor configured",
		"interval", interval,
		"backend", cfg.DataBackend)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Overdue-worker shutdown complete")
}
