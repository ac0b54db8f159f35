package cmd

import (
	"encoding/json"
	"fmt"

	"assettracker/internal/database"
	"assettracker/internal/inventory/resolver"
	"assettracker/internal/repository"

	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <category> <id>",
		Short: "Show which row an asset identifier resolves to.",
		Long:  `Runs the identifier resolver against the live database. Nothing is written.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			db, err := database.NewPostgresConnection(cmd.Context(), a.cfg.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewRepository(db)
			r := resolver.NewResolver(resolver.Options{
				MaxLookups: a.cfg.Resolver.MaxLookups,
				Timeout:    a.cfg.Resolver.Timeout,
			}, a.logger)

			resolution, err := r.Resolve(cmd.Context(), resolver.NewPostgresCatalog(repo.GoquDBWrapper), args[0], args[1])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(resolution, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
