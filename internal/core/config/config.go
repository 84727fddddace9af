// Package config provides configuration management for the tablekeeper CLI.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Config holds settings shared by every tablekeeper command.
type Config struct {
	DatabaseURL  string
	DataDir      string
	MaxRows      int
	PrettyExport bool
}

// DefaultConfig returns configuration with default values.
// The sqlite default keeps first-run friction at zero; production rule
// stores point DatabaseURL at postgres.
func DefaultConfig() *Config {
	return &Config{
		DatabaseURL:  "sqlite://tablekeeper.db",
		DataDir:      "./data",
		MaxRows:      100000,
		PrettyExport: true,
	}
}

// ResolveDatabaseURL rewrites a relative sqlite database path to live under
// DataDir, creating the directory if needed. Absolute sqlite paths and
// non-sqlite URLs pass through untouched.
func (c *Config) ResolveDatabaseURL() (string, error) {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database URL: %w", err)
	}
	// A relative sqlite path parses with the first segment as the host;
	// sqlite:///absolute/path has an empty host and stays where it points.
	if u.Scheme != "sqlite" || u.Host == "" {
		return c.DatabaseURL, nil
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir %s: %w", c.DataDir, err)
	}
	return "sqlite://" + filepath.ToSlash(filepath.Join(c.DataDir, u.Host+u.Path)), nil
}

// validateConfig checks value ranges before any command runs.
func validateConfig(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url must not be empty")
	}
	if cfg.MaxRows <= 0 {
		return fmt.Errorf("max_rows must be positive, got %d", cfg.MaxRows)
	}
	return nil
}
