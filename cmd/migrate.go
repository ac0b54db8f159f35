package cmd

import (
	"fmt"

	"assettracker/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run migrations manually.",
		Long:  `Applies every pending migration from --dir (MIGRATIONS_DIR by default) to the configured database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			migrationDir, _ := cmd.Flags().GetString("dir")
			if migrationDir == "" {
				migrationDir = a.cfg.MigrationsDir
			}

			if err := database.RunMigrations(a.cfg.DSN(), migrationDir, a.logger); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			return nil
		},
	}
	migrateCmd.Flags().String("dir", "", "Directory containing the migration files")

	return migrateCmd
}
