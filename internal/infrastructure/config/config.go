// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} expansion
//  2. Environment variables (fallback), optionally seeded from a .env file
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	groupID := cfg.Sync.GroupID
//	apiKey := cfg.GetAPIKey(cfg.Splitwise.APIKey, "SPLITWISE_API_KEY")
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Splitwise     SplitwiseConfig     `yaml:"splitwise"`
	Sync          SyncConfig          `yaml:"sync"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
	API           APIConfig           `yaml:"api"`
}

// SplitwiseConfig holds Splitwise API configuration
type SplitwiseConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	RetryMax       int    `yaml:"retry_max"` // Retries for read calls only
}

// SyncConfig holds defaults for sync runs. CLI flags override these.
type SyncConfig struct {
	GroupID         int64  `yaml:"group_id"`
	DayTolerance    int    `yaml:"day_tolerance"`
	AmountTolerance string `yaml:"amount_tolerance"`
	ExpenseLimit    int    `yaml:"expense_limit"`
	SnapshotPolicy  string `yaml:"snapshot_policy"` // parsed by sync.ParseSnapshotPolicy; empty = static
	SourceFormat    string `yaml:"source_format"`   // "mint" or "chase"
	AccountName     string `yaml:"account_name"`    // For sources that don't carry one
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	Enabled      bool   `yaml:"enabled"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" (default) or "json"
}

// APIConfig holds history API server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Splitwise: SplitwiseConfig{
			BaseURL:        "https://secure.splitwise.com/api/v3.0/",
			TimeoutSeconds: 30,
			RetryMax:       3,
		},
		Sync: SyncConfig{
			DayTolerance:    2,
			AmountTolerance: "1.00",
			ExpenseLimit:    10000,
			SourceFormat:    "mint",
		},
		Storage: StorageConfig{
			DatabasePath: "splitwise_sync.db",
			Enabled:      true,
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
		API: APIConfig{
			Port: 8085,
		},
	}
}

// Load reads and parses the config file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SPLITWISE_API_KEY})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Defaults()

	cfg.Splitwise.APIKey = os.Getenv("SPLITWISE_API_KEY")
	cfg.Splitwise.BaseURL = getEnv("SPLITWISE_BASE_URL", cfg.Splitwise.BaseURL)
	cfg.Sync.GroupID = getEnvInt64("SPLITWISE_GROUP_ID", 0)
	cfg.Storage.DatabasePath = getEnv("SPLITWISE_DB_PATH", cfg.Storage.DatabasePath)
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", cfg.Observability.Logging.Level)
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", cfg.Observability.Logging.Format)

	return cfg
}

// LoadOrEnv loads .env (if present), then tries config.yaml and falls back
// to environment variables
func LoadOrEnv() *Config {
	LoadDotEnv()
	return LoadOrEnv_WithPath("config.yaml")
}

// LoadOrEnv_WithPath tries to load from specified path, falls back to environment variables
func LoadOrEnv_WithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// Missing files are ignored and variables already set in the process
// environment win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}

// Validate checks values that would otherwise fail deep inside a run
func (c *Config) Validate() error {
	if _, err := c.Sync.Tolerance(); err != nil {
		return err
	}
	if c.Sync.DayTolerance < 0 {
		return fmt.Errorf("sync.day_tolerance must not be negative, got %d", c.Sync.DayTolerance)
	}
	if c.Splitwise.RetryMax < 0 {
		return fmt.Errorf("splitwise.retry_max must not be negative, got %d", c.Splitwise.RetryMax)
	}
	return nil
}

// Tolerance parses AmountTolerance
func (s SyncConfig) Tolerance() (decimal.Decimal, error) {
	if s.AmountTolerance == "" {
		return decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(s.AmountTolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sync.amount_tolerance %q: %w", s.AmountTolerance, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("sync.amount_tolerance must not be negative, got %s", s.AmountTolerance)
	}
	return d, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt64 retrieves an integer environment variable with a fallback default
func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseInt(val, 10, 64); err == nil {
			return result
		}
	}
	return fallback
}

// GetAPIKey retrieves an API key from config first, then tries multiple environment variable names
// Usage: GetAPIKey(cfg.Splitwise.APIKey, "SPLITWISE_API_KEY")
func (c *Config) GetAPIKey(configValue string, envVarNames ...string) string {
	// First, try the config value
	if configValue != "" {
		return configValue
	}

	// Then try each environment variable in order
	for _, envVar := range envVarNames {
		if val := os.Getenv(envVar); val != "" {
			return val
		}
	}

	return ""
}
