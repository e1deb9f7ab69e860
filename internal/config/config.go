// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Directory for analytics.db (always absolute)
	ModelPath      string // Local path or s3://bucket/key of the regressor artifact
	ElasticityPath string // Local path or s3://bucket/key of the elasticity table
	DatasetPath    string // CSV with the historical transaction rows
	// Cron spec (with seconds) for re-reading DatasetPath. Empty disables refresh.
	DatasetRefreshSchedule string
	SmoothingWindow        int // Moving average window for the daily projection series
	LogLevel               string
	LogPretty              bool
	Port                   int
	DevMode                bool
	RateLimit              *RateLimitConfig
	ObjectStore            *ObjectStoreConfig
}

// RateLimitConfig holds per-client limits for the predict endpoint
type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

// ObjectStoreConfig holds credentials for S3-compatible artifact storage.
// Only used when an artifact path starts with s3://
type ObjectStoreConfig struct {
	Endpoint        string // Empty = AWS default endpoint resolution
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:                absDataDir,
		ModelPath:              getEnv("MODEL_PATH", "models/random_forest.json"),
		ElasticityPath:         getEnv("ELASTICITY_PATH", "models/elasticity_results.json"),
		DatasetPath:            getEnv("DATASET_PATH", "data/sales_data.csv"),
		DatasetRefreshSchedule: getEnv("DATASET_REFRESH_SCHEDULE", ""),
		SmoothingWindow:        getEnvAsInt("SMOOTHING_WINDOW", 7),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogPretty:              getEnvAsBool("LOG_PRETTY", true),
		Port:                   getEnvAsInt("PORT", 8000),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		RateLimit: &RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:     getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:   getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		ObjectStore: &ObjectStoreConfig{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SmoothingWindow < 1 {
		return fmt.Errorf("SMOOTHING_WINDOW must be >= 1, got %d", c.SmoothingWindow)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("MODEL_PATH is required")
	}
	if c.DatasetPath == "" {
		return fmt.Errorf("DATASET_PATH is required")
	}
	if c.RateLimit != nil && c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit must be positive (rps=%v burst=%d)", c.RateLimit.RPS, c.RateLimit.Burst)
		}
	}
	if c.DatasetRefreshSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.DatasetRefreshSchedule); err != nil {
			return fmt.Errorf("invalid DATASET_REFRESH_SCHEDULE %q: %w", c.DatasetRefreshSchedule, err)
		}
	}
	return nil
}

// AnalyticsDBPath returns the location of the scenario history database
func (c *Config) AnalyticsDBPath() string {
	return filepath.Join(c.DataDir, "analytics.db")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
