// Package config handles persistent configuration for Topic Radar.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the application configuration. Values come from the JSON
// config file, with environment variables taking precedence for secrets
// and deployment-specific settings.
type Config struct {
	// HTTP server
	ListenAddr string `json:"listen_addr"`

	// Logging
	LogLevel string `json:"log_level"`

	// Aggregation
	Aggregation AggregationConfig `json:"aggregation"`

	// Adapter credentials / knobs
	Sources SourcesConfig `json:"sources"`

	// Classifier lexicon override; empty means the embedded default.
	LexiconFile string `json:"lexicon_file"`

	// Cycle history (optional SQLite audit trail)
	History HistoryConfig `json:"history"`
}

// AggregationConfig holds pipeline timing and tuning.
type AggregationConfig struct {
	// AdapterTimeoutSec bounds each individual source fetch.
	AdapterTimeoutSec int `json:"adapter_timeout_sec"`
	// DeadlineSec bounds the whole aggregation cycle.
	DeadlineSec int `json:"deadline_sec"`
	// MaxConcurrentFetches limits parallel fetch operations.
	MaxConcurrentFetches int `json:"max_concurrent_fetches"`
	// DedupThreshold is the SimHash similarity above which two titles
	// are considered the same story (0-1).
	DedupThreshold float64 `json:"dedup_threshold"`
	// MaxItemsPerSource caps how many items one adapter may contribute.
	MaxItemsPerSource int `json:"max_items_per_source"`
}

// SourcesConfig holds per-provider settings.
type SourcesConfig struct {
	YouTubeAPIKey string `json:"youtube_api_key,omitempty"`
	// RequestsPerSecond is the shared outbound rate limit.
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// HistoryConfig controls the optional cycle history store.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	DBPath  string `json:"db_path"`
}

// AdapterTimeout returns the per-adapter fetch timeout.
func (c *Config) AdapterTimeout() time.Duration {
	return time.Duration(c.Aggregation.AdapterTimeoutSec) * time.Second
}

// Deadline returns the overall aggregation deadline.
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.Aggregation.DeadlineSec) * time.Second
}

// Default returns sensible defaults.
func Default() *Config {
	return &Config{
		ListenAddr: ":8787",
		LogLevel:   "info",
		Aggregation: AggregationConfig{
			AdapterTimeoutSec:    15,
			DeadlineSec:          25,
			MaxConcurrentFetches: 5,
			DedupThreshold:       0.8,
			MaxItemsPerSource:    25,
		},
		Sources: SourcesConfig{
			RequestsPerSecond: 4,
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  defaultHistoryPath(),
		},
	}
}

func defaultHistoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "topicradar.db"
	}
	return filepath.Join(homeDir, ".topicradar", "history.db")
}

// Path returns the default config file path.
func Path() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "topicradar.json"
	}
	return filepath.Join(homeDir, ".topicradar", "config.json")
}

// Load reads configuration from the given path, falling back to defaults
// for a missing file, then applies environment overrides. A `.env` file in
// the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	// Missing .env is fine; only care that a present one parses.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + env only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("TOPICRADAR_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("TOPICRADAR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.Sources.YouTubeAPIKey = v
	}
	if v := os.Getenv("TOPICRADAR_LEXICON_FILE"); v != "" {
		c.LexiconFile = v
	}
	if v := os.Getenv("TOPICRADAR_HISTORY_DB"); v != "" {
		c.History.Enabled = true
		c.History.DBPath = v
	}
	if v := os.Getenv("TOPICRADAR_DEADLINE_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Aggregation.DeadlineSec = n
		}
	}
}

func (c *Config) validate() error {
	if c.Aggregation.AdapterTimeoutSec <= 0 {
		return fmt.Errorf("adapter_timeout_sec must be positive, got %d", c.Aggregation.AdapterTimeoutSec)
	}
	if c.Aggregation.DeadlineSec <= 0 {
		return fmt.Errorf("deadline_sec must be positive, got %d", c.Aggregation.DeadlineSec)
	}
	if c.Aggregation.DedupThreshold < 0 || c.Aggregation.DedupThreshold > 1 {
		return fmt.Errorf("dedup_threshold must be in [0,1], got %v", c.Aggregation.DedupThreshold)
	}
	return nil
}

// Save writes the config as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
