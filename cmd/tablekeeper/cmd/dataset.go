package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/solatis/tablekeeper/internal/core/config"
	"github.com/solatis/tablekeeper/internal/types"
)

// loadConfigWithFlags loads configuration and applies root flag overrides.
func loadConfigWithFlags() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	return cfg, nil
}

// loadRows reads a JSON row array from a dataset file, enforcing the
// configured row cap before any engine work starts.
func loadRows(path string, maxRows int) ([]types.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	var rows []types.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	if len(rows) > maxRows {
		return nil, fmt.Errorf("%w: %d rows (max %d)", types.ErrTooManyRows, len(rows), maxRows)
	}

	return rows, nil
}

// writeJSON emits v to path, or to stdout when path is empty.
func writeJSON(path string, v any, pretty bool) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
