// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfforge/internal/manifest"
	"github.com/pdiddy/pdfforge/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a recorded run manifest",
	Long: `Report reads the SQLite run manifest written during convert runs and
prints a per-outcome summary. Use --outcome to list the documents behind
one outcome, or --yaml to export every record.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("manifest", "pdfforge.db", "SQLite run-manifest path")
	reportCmd.Flags().String("outcome", "", "list documents with this outcome: converted, skipped, filtered, failed")
	reportCmd.Flags().Bool("yaml", false, "export all records as YAML")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	path := stringSetting(cmd, "manifest", "manifest_path")
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no manifest at %s: %w", path, err)
	}

	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		return store.ExportYAML(ctx, os.Stdout)
	}

	if outcome, _ := cmd.Flags().GetString("outcome"); outcome != "" {
		results, err := store.List(ctx, types.Outcome(outcome))
		if err != nil {
			return err
		}
		for _, r := range results {
			line := fmt.Sprintf("%-10s %s", r.Outcome, r.InputPath)
			if r.Err != "" {
				line += " (" + r.Err + ")"
			}
			fmt.Fprintln(os.Stdout, line)
		}
		fmt.Fprintf(os.Stdout, "\n%d document(s)\n", len(results))
		return nil
	}

	sum, err := store.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "converted: %d\nskipped:   %d\nfiltered:  %d\nfailed:    %d\ntotal:     %d\n",
		sum.Converted, sum.Skipped, sum.Filtered, sum.Failed, sum.Total())
	return nil
}
