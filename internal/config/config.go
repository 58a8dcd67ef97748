// Package config loads logbook settings from ~/.logbook/config.yaml and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the logbook configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Import   ImportConfig   `yaml:"import"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path  string `yaml:"path"`  // SQLite file (default ~/.logbook/logbook.db)
	Debug bool   `yaml:"debug"` // Surface slow queries and gorm warnings
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ImportConfig holds import settings.
type ImportConfig struct {
	StagingTTLMinutes   int    `yaml:"staging_ttl_minutes"`   // Staged import lifetime (0 = never expire)
	ReapIntervalSeconds int    `yaml:"reap_interval_seconds"` // How often expired imports are evicted
	DataDir             string `yaml:"data_dir"`              // Default directory for import-dir
}

// TaxonomyConfig points at an optional family taxonomy override.
type TaxonomyConfig struct {
	Path string `yaml:"path"` // YAML taxonomy; empty uses the built-in tables
}

// StagingTTL returns the staged import lifetime.
func (c ImportConfig) StagingTTL() time.Duration {
	return time.Duration(c.StagingTTLMinutes) * time.Minute
}

// ReapInterval returns the reaper period.
func (c ImportConfig) ReapInterval() time.Duration {
	return time.Duration(c.ReapIntervalSeconds) * time.Second
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	paths := DefaultPaths()
	return &Config{
		Database: DatabaseConfig{
			Path: paths.DatabaseFile(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Import: ImportConfig{
			StagingTTLMinutes:   30,
			ReapIntervalSeconds: 60,
			DataDir:             paths.DataDir(),
		},
	}
}

// Load loads the configuration from LOGBOOK_CONFIG or the default path.
func Load() (*Config, error) {
	path := os.Getenv("LOGBOOK_CONFIG")
	if path == "" {
		path = DefaultPaths().ConfigFile()
	}
	return LoadFromFile(path)
}

// LoadFromFile loads the configuration from a specific file. A missing file
// yields the defaults. Environment overrides are applied last.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LOGBOOK_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("LOGBOOK_TAXONOMY"); v != "" {
		c.Taxonomy.Path = v
	}
	if v := os.Getenv("LOGBOOK_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("LOGBOOK_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
			c.Database.Debug = true
		}
	}
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path must be set")
	}
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	if c.Import.StagingTTLMinutes < 0 {
		return errors.New("import.staging_ttl_minutes must be >= 0")
	}
	if c.Import.ReapIntervalSeconds < 0 {
		return errors.New("import.reap_interval_seconds must be >= 0")
	}
	return nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) expandPaths() {
	c.Database.Path = expandHome(c.Database.Path)
	c.Import.DataDir = expandHome(c.Import.DataDir)
	c.Taxonomy.Path = expandHome(c.Taxonomy.Path)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
