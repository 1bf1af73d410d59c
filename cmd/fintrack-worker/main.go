package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/export"
	"fintrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting fintrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.SheetsExportEnabled() {
		logger.Error("Sheets export is not configured - set GOOGLE_SPREADSHEET_ID and credentials")
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP is not configured - set AMQP_URL to consume transaction events")
		os.Exit(1)
	}

	// SQLite repository to look up exported transactions
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Google Sheets exporter
	exporter, err := export.NewSheetsExporter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	// AMQP client for consuming transaction events
	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	w := worker.NewExportWorker(repo, exporter)

	if err := events.Consume(ctx, w); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
