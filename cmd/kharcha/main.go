package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/backend"
	"kharcha/internal/cli"
	apphttp "kharcha/internal/http"
	"kharcha/internal/services"
	"kharcha/internal/suggest"
)

func main() {
	logger := cli.SetupLogger("kharcha")
	cli.LoadEnvFile(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	store, err := backend.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer store.Close()

	profiles, err := suggest.DefaultProfiles()
	if err != nil {
		logger.Error("Failed to load keyword profiles", "error", err)
		os.Exit(1)
	}
	if cfg.ProfilesPath != "" {
		profiles, err = suggest.LoadProfiles(cfg.ProfilesPath)
		if err != nil {
			logger.Error("Failed to load keyword profile overrides", "error", err, "path", cfg.ProfilesPath)
			os.Exit(1)
		}
		logger.Info("Keyword profile overrides loaded", "path", cfg.ProfilesPath)
	}

	suggester := suggest.New(profiles, suggest.Options{
		RuleThreshold:  cfg.RuleThreshold,
		ModelThreshold: cfg.ModelThreshold,
		MinHistory:     cfg.MinHistory,
	})

	expenses := services.NewExpenseService(store.Repo, suggester, logger)

	// The sample cache speeds up retraining; the expense log remains the
	// source of truth when it is unavailable.
	samples, err := suggest.OpenSampleStore(cfg.SampleCachePath)
	if err != nil {
		logger.Warn("Sample cache unavailable, retraining will read the expense log", "error", err, "path", cfg.SampleCachePath)
	} else {
		defer samples.Close()
		expenses = expenses.WithSampleStore(samples)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventQueue, cfg.AMQPAlertQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		expenses = expenses.WithPublisher(client)
		logger.Info("Expense event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	// Warm the classifier from existing history. Too little history is the
	// normal state for a fresh install, not an error.
	if count, err := expenses.Retrain(context.Background()); err != nil {
		if errors.Is(err, suggest.ErrInsufficientHistory) {
			logger.Info("Classifier not trained yet, rule matching only", "min_history", cfg.MinHistory)
		} else {
			logger.Warn("Initial classifier training failed", "error", err)
		}
	} else {
		logger.Info("Classifier trained from history", "samples", count)
	}

	dashboard := services.NewDashboardService(store.Repo, store.Repo)

	srv := apphttp.NewServer(":"+cfg.Port, expenses, dashboard)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := cli.SignalContext(context.Background())
	defer cancel()

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting kharcha server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	logger.Info("Server stopped gracefully")
}
