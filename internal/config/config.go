package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all jobdeck configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Job platform API
	Platform PlatformConfig `yaml:"platform"`

	// Local search history
	History HistoryConfig `yaml:"history"`

	// Search behavior
	Search SearchConfig `yaml:"search"`

	// AI insights
	Insights InsightsConfig `yaml:"insights"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// PlatformConfig configures the job platform API clients.
type PlatformConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// HistoryConfig configures the local search history store.
type HistoryConfig struct {
	DatabasePath string `yaml:"database_path"`
	MaxRecords   int    `yaml:"max_records"`
}

// SearchConfig configures search requests.
type SearchConfig struct {
	PageSize int    `yaml:"page_size"`
	MaxPages int    `yaml:"max_pages"`
	Timeout  string `yaml:"timeout"`
}

// InsightsConfig configures the Gemini digest generator.
type InsightsConfig struct {
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	MaxRecords int    `yaml:"max_records"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "jobdeck",
		Version: "0.3.0",

		Platform: PlatformConfig{
			BaseURL: "https://api.jobdeck.dev",
			Timeout: "30s",
		},

		History: HistoryConfig{
			DatabasePath: "data/jobdeck.db",
			MaxRecords:   200,
		},

		Search: SearchConfig{
			PageSize: 25,
			MaxPages: 4,
			Timeout:  "60s",
		},

		Insights: InsightsConfig{
			Model:      "gemini-2.0-flash",
			MaxRecords: 20,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "jobdeck.log",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("JOBDECK_BASE_URL"); url != "" {
		c.Platform.BaseURL = url
	}
	if key := os.Getenv("JOBDECK_API_KEY"); key != "" {
		c.Platform.APIKey = key
	}
	if timeout := os.Getenv("JOBDECK_TIMEOUT"); timeout != "" {
		c.Platform.Timeout = timeout
	}
	if path := os.Getenv("JOBDECK_DB_PATH"); path != "" {
		c.History.DatabasePath = path
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Insights.APIKey = key
	}
}

// GetPlatformTimeout returns the platform API timeout as a duration.
func (c *Config) GetPlatformTimeout() time.Duration {
	d, err := time.ParseDuration(c.Platform.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetSearchTimeout returns the search timeout as a duration.
func (c *Config) GetSearchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Search.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("platform base URL not configured (set platform.base_url or JOBDECK_BASE_URL)")
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search page size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.MaxPages <= 0 {
		return fmt.Errorf("search max pages must be positive, got %d", c.Search.MaxPages)
	}
	if c.History.MaxRecords < 0 {
		return fmt.Errorf("history max records must not be negative, got %d", c.History.MaxRecords)
	}
	return nil
}
