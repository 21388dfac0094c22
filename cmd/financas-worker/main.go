package main

import (
	"context"
	"errors"
	"os"
	"time"

	"financas/internal/amqp"
	"financas/internal/cli"
	"financas/internal/config"
	"financas/internal/log"
	gsheet "financas/internal/sheets/google"
	"financas/internal/worker"
)

func main() {
	cfg := cli.LoadConfig((*config.Config).ValidateWorker)
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentWorker)

	logger.Info("Starting financas-worker")

	journal, err := gsheet.NewJournal(context.Background(), gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets journal", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets journal initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	journalWorker := worker.NewJournalWorker(journal)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		stats := journalWorker.Stats()
		logger.Info("Journal worker totals",
			"appended", stats.Appended,
			"skipped", stats.Skipped,
			"failed", stats.Failed)
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", log.FieldError, err)
		}
	})

	if err := amqpClient.ConsumeTransactionEvents(ctx, journalWorker.HandleMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
