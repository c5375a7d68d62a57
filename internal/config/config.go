package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection: "json" or "sqlite"
	DataBackend string

	// JSON file backend
	JSONDataPath string

	// SQLite backend
	SQLiteDBPath string

	// AMQP (optional; empty URL disables event publishing)
	AMQPURL        string
	AMQPExchange   string
	AMQPEventQueue string
	AMQPAlertQueue string

	// Category suggester
	ProfilesPath    string  // optional YAML keyword profiles override
	SampleCachePath string  // bolt file caching training samples
	RuleThreshold   float64 // rule stage accepted at or above this confidence
	ModelThreshold  float64 // below this, a trained model is consulted
	MinHistory      int     // minimum labeled samples before training

	// Budget alerts
	DailyBudgetPaise int64

	// Export worker
	ExportBatchSize int
	ExportInterval  time.Duration

	// Google Sheets export (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "json"),
		JSONDataPath: getEnv("JSON_DATA_PATH", "./data/expenses.json"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kharcha.db"),

		AMQPURL:        getEnv("AMQP_URL", ""),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "kharcha"),
		AMQPEventQueue: getEnv("AMQP_EVENT_QUEUE", "expense_events"),
		AMQPAlertQueue: getEnv("AMQP_ALERT_QUEUE", "alerts"),

		ProfilesPath:    getEnv("SUGGEST_PROFILES_PATH", ""),
		SampleCachePath: getEnv("SUGGEST_SAMPLE_CACHE", "./data/samples.db"),
		RuleThreshold:   getEnvFloat("SUGGEST_RULE_THRESHOLD", 0.70),
		ModelThreshold:  getEnvFloat("SUGGEST_MODEL_THRESHOLD", 0.50),
		MinHistory:      getEnvInt("SUGGEST_MIN_HISTORY", 10),

		DailyBudgetPaise: int64(getEnvInt("DAILY_BUDGET_PAISE", 100000)),

		ExportBatchSize: getEnvInt("EXPORT_BATCH_SIZE", 10),
		ExportInterval:  getEnvDuration("EXPORT_INTERVAL", 30*time.Second),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case "json", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid data backend '%s': must be one of [json sqlite]", c.DataBackend))
	}

	if c.DataBackend == "json" && c.JSONDataPath == "" {
		errs = append(errs, "JSON data path cannot be empty when using json backend")
	}
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPEventQueue == "" {
			errs = append(errs, "AMQP event queue name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPAlertQueue == "" {
			errs = append(errs, "AMQP alert queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RuleThreshold < 0 || c.RuleThreshold > 1 {
		errs = append(errs, fmt.Sprintf("invalid rule threshold %v: must be within [0,1]", c.RuleThreshold))
	}
	if c.ModelThreshold < 0 || c.ModelThreshold > 1 {
		errs = append(errs, fmt.Sprintf("invalid model threshold %v: must be within [0,1]", c.ModelThreshold))
	}
	if c.MinHistory < 1 {
		errs = append(errs, fmt.Sprintf("invalid minimum history %d: must be at least 1", c.MinHistory))
	}

	if c.DailyBudgetPaise < 0 {
		errs = append(errs, fmt.Sprintf("invalid daily budget %d: must not be negative", c.DailyBudgetPaise))
	}

	if c.ExportBatchSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid export batch size %d: must be at least 1", c.ExportBatchSize))
	} else if c.ExportBatchSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid export batch size %d: must be at most 1000", c.ExportBatchSize))
	}
	if c.ExportInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
