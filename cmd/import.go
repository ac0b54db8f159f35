package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"assettracker/internal/core/container"
	"assettracker/internal/inventory/importer"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import a workbook into the local workspace snapshot.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer f.Close()

			sheets, err := importer.ReadExcel(f)
			if err != nil {
				return err
			}

			_, s, err := container.NewWorkspace(a.cfg, a.logger)
			if err != nil {
				return err
			}
			s.Load(cmd.Context(), nil, nil)

			fileName := filepath.Base(args[0])
			if dryRun {
				printReport(cmd.OutOrStdout(), s.PreviewImport(fileName, sheets))
				fmt.Fprintln(cmd.OutOrStdout(), "dry run: workspace not modified")
				return nil
			}

			printReport(cmd.OutOrStdout(), s.ApplyImport(fileName, sheets))
			if err := s.Close(); err != nil {
				return fmt.Errorf("save workspace: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace saved to %s\n", a.cfg.SnapshotPath)
			return nil
		},
	}
	importCmd.Flags().Bool("dry-run", false, "Show what the import would do without saving")

	return importCmd
}

func printReport(w io.Writer, report importer.Report) {
	for _, sheet := range report.Sheets {
		fmt.Fprintf(w, "%-32s %-8s %-8s %s\n", sheet.SheetName, sheet.Category, sheet.Status, sheet.Message)
	}
	t := report.Totals
	fmt.Fprintf(w, "total: %d imported, %d new, %d updated, %d conflicts, %d skipped\n",
		t.TotalImported, t.NewAssets, t.UpdatedAssets, t.Conflicts, t.SkippedAssets)
}
