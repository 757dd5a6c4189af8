package common

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig `toml:"logging"`
	Storage     StorageConfig `toml:"storage"`
	Engine      EngineConfig  `toml:"engine"`
	Watch       WatchConfig   `toml:"watch"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// EngineConfig tunes the extraction engine.
type EngineConfig struct {
	// KeywordsFile optionally points to a YAML file overriding the
	// compiled-in keyword/synonym tables.
	KeywordsFile string `toml:"keywords_file"`
	// MinPortfolioValue overrides the candidate floor for targeted
	// portfolio value matches. Zero keeps the built-in floor.
	MinPortfolioValue float64 `toml:"min_portfolio_value"`
	// MinLargestCellValue overrides the floor for the largest-cell
	// fallback. Zero keeps the built-in floor.
	MinLargestCellValue float64 `toml:"min_largest_cell_value"`
}

// WatchConfig configures directory watch mode.
type WatchConfig struct {
	Dir           string `toml:"dir"`            // Directory polled for document payloads
	Interval      string `toml:"interval"`       // Poll interval, e.g. "10s"
	Retention     string `toml:"retention"`      // How long stored analyses are kept, e.g. "720h"
	SweepSchedule string `toml:"sweep_schedule"` // Cron schedule for the retention sweep
}

// NewDefaultConfig returns the configuration defaults applied before any
// file or environment override.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/tally",
			},
		},
		Watch: WatchConfig{
			Dir:           "./inbox",
			Interval:      "10s",
			Retention:     "720h",
			SweepSchedule: "0 * * * *",
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier ones, environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TALLY_ENV"); env != "" {
		config.Environment = env
	}
	if level := os.Getenv("TALLY_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if path := os.Getenv("TALLY_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if dir := os.Getenv("TALLY_WATCH_DIR"); dir != "" {
		config.Watch.Dir = dir
	}
	if file := os.Getenv("TALLY_KEYWORDS_FILE"); file != "" {
		config.Engine.KeywordsFile = file
	}
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IntervalDuration parses the watch poll interval, defaulting to 10s.
func (w *WatchConfig) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// RetentionDuration parses the analysis retention window, defaulting to
// 30 days.
func (w *WatchConfig) RetentionDuration() time.Duration {
	d, err := time.ParseDuration(w.Retention)
	if err != nil || d <= 0 {
		return 30 * 24 * time.Hour
	}
	return d
}
