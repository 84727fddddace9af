package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tablekeeper/internal/engine"
	"github.com/solatis/tablekeeper/internal/types"
)

var validateCategory string

var validateCmd = &cobra.Command{
	Use:   "validate <dataset.json>",
	Short: "Validate a dataset against its category schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateCategory, "category", "", "dataset category (clients, workers, tasks)")
	validateCmd.MarkFlagRequired("category")
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfigWithFlags()
	if err != nil {
		return err
	}

	category, err := types.ParseCategory(validateCategory)
	if err != nil {
		return fmt.Errorf("%w: %q", err, validateCategory)
	}

	rows, err := loadRows(args[0], cfg.MaxRows)
	if err != nil {
		return err
	}

	issues := engine.Validate(rows, category)

	warnings, errors := 0, 0
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			errors++
		} else {
			warnings++
		}
	}
	logger.Info("validation complete",
		zap.String("category", string(category)),
		zap.Int("rows", len(rows)),
		zap.Int("warnings", warnings),
		zap.Int("errors", errors),
	)

	return writeJSON("", issues, cfg.PrettyExport)
}
