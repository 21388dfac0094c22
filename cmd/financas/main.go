package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financas/internal/auth"
	"financas/internal/cli"
	"financas/internal/config"
	apphttp "financas/internal/http"
	"financas/internal/log"
	"financas/internal/services"
)

func main() {
	cfg := cli.LoadConfig((*config.Config).Validate)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	be := cli.InitBackend(context.Background(), logger, cfg)

	var reports *services.ReportService
	if cfg.ReportCacheTTL > 0 {
		reports = services.NewReportService(be.Store, services.NewReportCache(cfg.ReportCacheTTL))
	} else {
		reports = services.NewReportService(be.Store, nil)
	}

	deps := apphttp.Deps{
		Verifier:       auth.NewVerifier(cfg.AuthJWTSecret, cfg.AuthJWTAudience),
		Access:         services.NewAccessService(be.Store),
		Categories:     services.NewCategoryService(be.Store, reports),
		Transactions:   services.NewTransactionService(be.Store, be.Publisher, reports),
		Goals:          services.NewGoalService(be.Store),
		PaymentMethods: services.NewPaymentMethodService(be.Store, reports),
		Reports:        reports,
		Ready:          be.Ready,
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		BlockSuspicious:    cfg.BlockSuspicious,
		TrustedProxies:     cfg.TrustedProxies,
	}, deps)

	// The overdue sweep runs in-process only when asked to; deployments with
	// cmd/overdue-worker leave OVERDUE_INTERVAL unset.
	var overdue *services.OverdueProcessor
	if cfg.OverdueInterval > 0 {
		overdue = services.NewOverdueProcessor(be.Store, reports, services.OverdueProcessorConfig{Interval: cfg.OverdueInterval})
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if overdue != nil {
			if err := overdue.Stop(shutdownCtx); err != nil {
				logger.Warn("Overdue processor stop error", log.FieldError, err)
			}
		}
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", log.FieldError, err)
			}
		}
	})

	if overdue != nil {
		if err := overdue.Start(ctx); err != nil {
			logger.Error("Failed to start overdue processor", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Overdue processor started", "interval", cfg.OverdueInterval)
	}

	logger.Info("Starting financas server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"events", be.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
