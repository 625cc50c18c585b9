package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Watchlist struct {
		StateFile      string   `yaml:"state_file"`
		DefaultSymbols []string `yaml:"default_symbols"`
	} `yaml:"watchlist"`
	Cache struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	RateLimit struct {
		MinIntervalMs int `yaml:"min_interval_ms"`
		PerMinute     int `yaml:"per_minute"` // 0 disables the rolling-minute cap
	} `yaml:"rate_limit"`
	Schedule struct {
		QuotesCron   string `yaml:"quotes_cron"`
		ListingsCron string `yaml:"listings_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPHAVANTAGE_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Cache.SQLitePath = v
	}
	if v := os.Getenv("WATCHLIST_STATE_FILE"); v != "" {
		cfg.Watchlist.StateFile = v
	}

	// Defaults. The API key intentionally has none: a missing key is a
	// runtime configuration error on fetch, not a startup failure, so
	// cached data stays servable.
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if len(cfg.Watchlist.DefaultSymbols) == 0 {
		cfg.Watchlist.DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/tickerboard.db"
	}
	if cfg.RateLimit.MinIntervalMs == 0 {
		cfg.RateLimit.MinIntervalMs = 1200
	}
	if cfg.Schedule.QuotesCron == "" {
		cfg.Schedule.QuotesCron = "0 */10 * * * 1-5"
	}
	if cfg.Schedule.ListingsCron == "" {
		cfg.Schedule.ListingsCron = "0 0 6 * * 1"
	}

	return cfg, nil
}

// Validate checks that all required fields are coherent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}
	if c.RateLimit.MinIntervalMs < 0 {
		return fmt.Errorf("rate_limit.min_interval_ms must be non-negative")
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("rate_limit.per_minute must be non-negative")
	}
	return nil
}
