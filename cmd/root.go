package cmd

import (
	"context"
	"fmt"
	"os"

	"assettracker/internal/core/config"
	"assettracker/internal/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every command needs once the root command has run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "assettracker",
		Short:         "IT asset inventory service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger.NewLogger(cfg.LogLevel)
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().String("env-file", ".env", "Env file loaded before reading the environment")

	serveCmd := newServeCmd(a)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(
		serveCmd,
		newMigrateCmd(a),
		newImportCmd(a),
		newResolveCmd(a),
		newCreateUserCmd(a),
	)

	return rootCmd
}

func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
