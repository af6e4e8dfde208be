// Package common provides shared utilities for Paperfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Paperfolio
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Quotes      QuotesConfig  `toml:"quotes"`
	Seed        SeedConfig    `toml:"seed"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the ledger database location.
type StorageConfig struct {
	Path string `toml:"path"`
}

// QuotesConfig configures the background price refresher.
type QuotesConfig struct {
	Enabled   bool    `toml:"enabled"`
	Interval  string  `toml:"interval"`   // refresh period, duration string
	RateLimit int     `toml:"rate_limit"` // quote lookups per second
	MaxDrift  float64 `toml:"max_drift"`  // max per-tick price move, fraction (e.g. 0.02)
}

// GetInterval parses and returns the refresh interval duration.
func (c *QuotesConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// SeedConfig describes the initial ledger state written on first start.
type SeedConfig struct {
	StartingBalance string      `toml:"starting_balance"` // decimal string, e.g. "100000"
	Stocks          []SeedStock `toml:"stocks"`
}

// SeedStock is one stock registered at setup.
type SeedStock struct {
	Symbol    string `toml:"symbol"`
	Name      string `toml:"name"`
	Price     string `toml:"price"` // decimal string
	Watchlist bool   `toml:"watchlist"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 5001,
		},
		Storage: StorageConfig{
			Path: "data/ledger",
		},
		Quotes: QuotesConfig{
			Enabled:   true,
			Interval:  "60s",
			RateLimit: 10,
			MaxDrift:  0.02,
		},
		Seed: SeedConfig{
			StartingBalance: "100000",
			Stocks: []SeedStock{
				{Symbol: "AAPL", Name: "Apple Inc.", Price: "175.43", Watchlist: true},
				{Symbol: "MSFT", Name: "Microsoft Corporation", Price: "338.11", Watchlist: true},
				{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: "125.30"},
				{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: "127.74"},
				{Symbol: "NVDA", Name: "NVIDIA Corporation", Price: "416.10"},
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// TOML decoding appends array tables to a pre-populated slice. The seed
	// catalog should be replaced by the file, not extended, so defaults are
	// held back until no file supplied one.
	defaultSeeds := config.Seed.Stocks
	config.Seed.Stocks = nil

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if len(config.Seed.Stocks) == 0 {
		config.Seed.Stocks = defaultSeeds
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PAPERFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PAPERFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PAPERFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PAPERFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PAPERFOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if iv := os.Getenv("PAPERFOLIO_QUOTE_INTERVAL"); iv != "" {
		config.Quotes.Interval = iv
	}

	if v := os.Getenv("PAPERFOLIO_QUOTES_ENABLED"); v != "" {
		config.Quotes.Enabled = v == "true" || v == "1"
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
