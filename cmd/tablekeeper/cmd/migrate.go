package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/tablekeeper/internal/core/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfigWithFlags()
	if err != nil {
		return err
	}

	dbURL, err := cfg.ResolveDatabaseURL()
	if err != nil {
		return err
	}
	db, err := store.Open(dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.MigrateUp(db); err != nil {
		return err
	}

	statuses, err := store.MigrateStatus(db)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Printf("%s\t%s\n", s.ID, state)
	}
	return nil
}
