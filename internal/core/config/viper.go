package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	v.SetDefault("database_url", "sqlite://tablekeeper.db")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("max_rows", 100000)
	v.SetDefault("pretty_export", true)

	// Bind environment variables with TBK_ prefix
	v.SetEnvPrefix("TBK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:  v.GetString("database_url"),
		DataDir:      v.GetString("data_dir"),
		MaxRows:      v.GetInt("max_rows"),
		PrettyExport: v.GetBool("pretty_export"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
