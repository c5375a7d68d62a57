package main

import (
	"context"
	"os"

	"kharcha/internal/amqp"
	"kharcha/internal/backend"
	"kharcha/internal/cli"
	"kharcha/internal/core"
	"kharcha/internal/notify"
	"kharcha/internal/ports"
	"kharcha/internal/services"
	"kharcha/internal/sheets"
	"kharcha/internal/worker"
)

func main() {
	logger := cli.SetupLogger("kharcha-worker")
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting kharcha-worker")

	store, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventQueue, cfg.AMQPAlertQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := cli.SignalContext(context.Background())
	defer cancel()

	// Google Sheets export runs only when a spreadsheet is configured and
	// the backend keeps an export queue.
	var exporter ports.RowExporter
	if cfg.GoogleSpreadsheetID != "" {
		if store.Exports == nil {
			logger.Warn("Export disabled - backend has no export queue", "backend", cfg.DataBackend)
		} else {
			sheetsExporter, err := sheets.NewExporter(ctx, "", cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
			if err != nil {
				logger.Error("Failed to initialize Google Sheets exporter", "error", err)
				os.Exit(1)
			}
			exporter = sheetsExporter
			logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		}
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	w := worker.New(worker.Config{
		Events:    client,
		Alerts:    client,
		Repo:      store.Repo,
		Budget:    services.NewBudgetChecker(store.Repo, core.Money{Paise: cfg.DailyBudgetPaise}),
		Notifier:  notify.NewLogNotifier(logger),
		Exports:   store.Exports,
		Exporter:  exporter,
		BatchSize: cfg.ExportBatchSize,
		Interval:  cfg.ExportInterval,
	}, logger)

	logger.Info("Worker running",
		"event_queue", cfg.AMQPEventQueue,
		"daily_budget_paise", cfg.DailyBudgetPaise,
		"export_interval", cfg.ExportInterval)

	if err := w.Run(ctx); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
