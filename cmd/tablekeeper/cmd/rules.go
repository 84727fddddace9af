package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tablekeeper/internal/core/config"
	"github.com/solatis/tablekeeper/internal/core/store"
	"github.com/solatis/tablekeeper/internal/rules"
	"github.com/solatis/tablekeeper/internal/types"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage the persisted business rule collection",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible rules (precedence overrides excluded)",
	RunE:  runRulesList,
}

var rulesOrderCmd = &cobra.Command{
	Use:   "order",
	Short: "Print the resolved execution order of enabled rules",
	RunE:  runRulesOrder,
}

var rulesExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the full rule collection, override included",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesExport,
}

var rulesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the rule collection from an exported file",
	Long: `Import validates every rule in the file and rejects the whole file on the
first invalid entry; the stored collection is replaced only after the
entire file passes.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesImport,
}

var rulesAddCmd = &cobra.Command{
	Use:   "add <rule.json>",
	Short: "Add one rule to the collection",
	Long: `Add reads a single rule document, assigns a generated id when the file
carries none, validates it, and appends it to the stored collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesAdd,
}

var rulesToggleCmd = &cobra.Command{
	Use:   "toggle <rule-id>",
	Short: "Enable or disable one rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesToggle,
}

var rulesDeleteCmd = &cobra.Command{
	Use:   "delete <rule-id>",
	Short: "Remove one rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesDelete,
}

var toggleEnabled bool

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesOrderCmd, rulesExportCmd,
		rulesImportCmd, rulesAddCmd, rulesToggleCmd, rulesDeleteCmd)
	rulesToggleCmd.Flags().BoolVar(&toggleEnabled, "enabled", true, "target enabled state")
}

// openStore opens the configured database, ensures the schema, and wraps it
// in a Store. The caller closes the returned handle.
func openStore() (*store.Store, *sqlx.DB, *config.Config, error) {
	cfg, err := loadConfigWithFlags()
	if err != nil {
		return nil, nil, nil, err
	}

	dbURL, err := cfg.ResolveDatabaseURL()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := store.Open(dbURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.MigrateUp(db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	s, err := store.New(db)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return s, db, cfg, nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	s, db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	set, err := s.Load()
	if err != nil {
		return err
	}
	return writeJSON("", rules.VisibleRules(set), cfg.PrettyExport)
}

func runRulesOrder(cmd *cobra.Command, args []string) error {
	s, db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	set, err := s.Load()
	if err != nil {
		return err
	}
	return writeJSON("", rules.ResolveOrder(set), cfg.PrettyExport)
}

func runRulesExport(cmd *cobra.Command, args []string) error {
	s, db, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	set, err := s.Load()
	if err != nil {
		return err
	}

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", args[0], err)
		}
		defer f.Close()
		out = f
	}
	return rules.Export(out, set, cfg.PrettyExport)
}

func runRulesImport(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	set, err := rules.Import(f)
	if err != nil {
		return err
	}
	if err := s.Save(set); err != nil {
		return err
	}

	logger.Info("rules imported",
		zap.String("file", args[0]),
		zap.Int("rules", set.Len()),
	)
	return nil
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var rule types.Rule
	if err := json.Unmarshal(data, &rule); err != nil {
		return fmt.Errorf("%w: %v", types.ErrStructural, err)
	}
	if rule.ID == "" {
		rule.ID = types.NewRuleID()
	}

	s, db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	set, err := s.Load()
	if err != nil {
		return err
	}
	next, err := set.Add(rule)
	if err != nil {
		return err
	}
	if err := s.Save(next); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("rule", string(rule.ID)),
		zap.String("kind", string(rule.Kind)),
	}
	if id, err := types.ParseRuleID(string(rule.ID)); err == nil {
		fields = append(fields, zap.Time("created", types.RuleIDTime(id)))
	}
	logger.Info("rule added", fields...)
	return nil
}

func runRulesToggle(cmd *cobra.Command, args []string) error {
	s, db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return s.SetEnabled(types.RuleID(args[0]), toggleEnabled)
}

func runRulesDelete(cmd *cobra.Command, args []string) error {
	s, db, _, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	return s.Delete(types.RuleID(args[0]))
}
