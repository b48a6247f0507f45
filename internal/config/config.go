// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Env      string // "development", "staging", "production"
	LogLevel string

	// Storage
	PostgresURL   string // optional, memory stores are used when not set
	ClickhouseDSN string // optional, stats snapshots stay in memory when not set

	// Feed ingestion
	FeedURL       string // WebSocket transaction feed endpoint
	FeedBatchSize int    // records per bulk insert

	// Pipeline
	InputPath    string // raw transaction JSON file
	OutputDir    string // report output directory
	WorkerCount  int    // feature extraction pool size, 0 means GOMAXPROCS
	MetricsAddr  string // Prometheus listen address, empty disables the endpoint
	FlushTimeout time.Duration
}

const (
	DefaultEnv          = "development"
	DefaultLogLevel     = "info"
	DefaultOutputDir    = "docs"
	DefaultBatchSize    = 500
	DefaultFlushTimeout = 5 * time.Second
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", DefaultEnv),
		LogLevel:      getEnv("LOG_LEVEL", DefaultLogLevel),
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		ClickhouseDSN: os.Getenv("CLICKHOUSE_DSN"),
		FeedURL:       os.Getenv("FEED_URL"),
		FeedBatchSize: getEnvInt("FEED_BATCH_SIZE", DefaultBatchSize),
		InputPath:     os.Getenv("INPUT_PATH"),
		OutputDir:     getEnv("OUTPUT_DIR", DefaultOutputDir),
		WorkerCount:   getEnvInt("WORKER_COUNT", 0),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		FlushTimeout:  getEnvDuration("FLUSH_TIMEOUT", DefaultFlushTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.FeedBatchSize <= 0 {
		return fmt.Errorf("FEED_BATCH_SIZE must be positive")
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("WORKER_COUNT must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
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

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
