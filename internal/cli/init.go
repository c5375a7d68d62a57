package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"kharcha/internal/config"
	"kharcha/internal/log"
)

// SetupLogger builds the process logger. LOG_LEVEL selects the level,
// defaulting to info.
func SetupLogger(component string) *log.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := log.New(level, component)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env if present. A missing file is not an error.
func LoadEnvFile(logger *log.Logger) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
		return
	}
	logger.Debug(".env file loaded")
}

// LoadAndValidateConfig reads the environment configuration and exits the
// process when it is invalid.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
