package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tablekeeper/internal/engine"
	"github.com/solatis/tablekeeper/internal/types"
)

var (
	applyCategory     string
	applyInstructions string
	applyOutput       string
)

var applyCmd = &cobra.Command{
	Use:   "apply <dataset.json>",
	Short: "Apply a filter/action instruction bundle to a dataset",
	Long: `Apply selects rows with the bundle's filters, runs its actions in order,
and re-validates the result. The input file is never modified; the new
dataset, changed-row count, skipped actions, and validation issues are
written as one result document.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&applyCategory, "category", "", "dataset category (clients, workers, tasks)")
	applyCmd.Flags().StringVar(&applyInstructions, "instructions", "", "path to DataModificationInstructions JSON")
	applyCmd.Flags().StringVar(&applyOutput, "output", "", "result output path (default stdout)")
	applyCmd.MarkFlagRequired("category")
	applyCmd.MarkFlagRequired("instructions")
}

func runApply(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := loadConfigWithFlags()
	if err != nil {
		return err
	}

	category, err := types.ParseCategory(applyCategory)
	if err != nil {
		return fmt.Errorf("%w: %q", err, applyCategory)
	}

	rows, err := loadRows(args[0], cfg.MaxRows)
	if err != nil {
		return err
	}

	instrData, err := os.ReadFile(applyInstructions)
	if err != nil {
		return fmt.Errorf("failed to read instructions %s: %w", applyInstructions, err)
	}
	var instr types.DataModificationInstructions
	if err := json.Unmarshal(instrData, &instr); err != nil {
		return fmt.Errorf("%w: %v", types.ErrStructural, err)
	}

	result, err := engine.Run(rows, category, instr)
	if err != nil {
		return fmt.Errorf("instruction bundle rejected: %w", err)
	}

	logger.Info("modification complete",
		zap.String("category", string(category)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("changedRows", result.ChangedRows),
		zap.Int("skippedActions", len(result.Skipped)),
		zap.Int("issues", len(result.Issues)),
	)

	return writeJSON(applyOutput, result, cfg.PrettyExport)
}
