package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Clean environment
	os.Unsetenv("TBK_DATABASE_URL")
	os.Unsetenv("TBK_MAX_ROWS")
	os.Unsetenv("TBK_PRETTY_EXPORT")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DatabaseURL != "sqlite://tablekeeper.db" {
			t.Errorf("expected sqlite default, got %s", cfg.DatabaseURL)
		}
		if cfg.DataDir != "./data" {
			t.Errorf("expected data_dir ./data, got %s", cfg.DataDir)
		}
		if cfg.MaxRows != 100000 {
			t.Errorf("expected max_rows 100000, got %d", cfg.MaxRows)
		}
		if !cfg.PrettyExport {
			t.Error("expected pretty_export true")
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("TBK_DATABASE_URL", "postgres://localhost/rules")
		os.Setenv("TBK_MAX_ROWS", "500")
		defer os.Unsetenv("TBK_DATABASE_URL")
		defer os.Unsetenv("TBK_MAX_ROWS")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DatabaseURL != "postgres://localhost/rules" {
			t.Errorf("expected env database_url, got %s", cfg.DatabaseURL)
		}
		if cfg.MaxRows != 500 {
			t.Errorf("expected max_rows 500, got %d", cfg.MaxRows)
		}
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "database_url: sqlite:///tmp/other.db\nmax_rows: 42\npretty_export: false\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.DatabaseURL != "sqlite:///tmp/other.db" {
			t.Errorf("expected file database_url, got %s", cfg.DatabaseURL)
		}
		if cfg.MaxRows != 42 {
			t.Errorf("expected max_rows 42, got %d", cfg.MaxRows)
		}
		if cfg.PrettyExport {
			t.Error("expected pretty_export false")
		}
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/config.yaml")
		if err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("invalid max_rows", func(t *testing.T) {
		os.Setenv("TBK_MAX_ROWS", "-1")
		defer os.Unsetenv("TBK_MAX_ROWS")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for negative max_rows")
		}
	})

	t.Run("empty database_url", func(t *testing.T) {
		os.Setenv("TBK_DATABASE_URL", "")
		defer os.Unsetenv("TBK_DATABASE_URL")

		// Empty env var still counts as set, overriding the default
		cfg, err := LoadConfig("")
		if err == nil && cfg.DatabaseURL == "" {
			t.Error("expected validation error for empty database_url")
		}
	})
}

func TestResolveDatabaseURL(t *testing.T) {
	t.Run("relative sqlite path lands in data dir", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "data")
		cfg := &Config{DatabaseURL: "sqlite://tablekeeper.db", DataDir: dataDir}

		got, err := cfg.ResolveDatabaseURL()
		if err != nil {
			t.Fatalf("ResolveDatabaseURL failed: %v", err)
		}
		want := "sqlite://" + filepath.ToSlash(filepath.Join(dataDir, "tablekeeper.db"))
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
		if _, err := os.Stat(dataDir); err != nil {
			t.Errorf("data dir not created: %v", err)
		}
	})

	t.Run("absolute sqlite path untouched", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "sqlite:///var/lib/tk/rules.db", DataDir: "./data"}
		got, err := cfg.ResolveDatabaseURL()
		if err != nil {
			t.Fatalf("ResolveDatabaseURL failed: %v", err)
		}
		if got != cfg.DatabaseURL {
			t.Errorf("expected %s untouched, got %s", cfg.DatabaseURL, got)
		}
	})

	t.Run("postgres untouched", func(t *testing.T) {
		cfg := &Config{DatabaseURL: "postgres://localhost/rules", DataDir: "./data"}
		got, err := cfg.ResolveDatabaseURL()
		if err != nil {
			t.Fatalf("ResolveDatabaseURL failed: %v", err)
		}
		if got != cfg.DatabaseURL {
			t.Errorf("expected %s untouched, got %s", cfg.DatabaseURL, got)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := validateConfig(cfg); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}
