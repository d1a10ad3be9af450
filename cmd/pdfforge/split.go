// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdfforge/internal/split"
	"github.com/pdiddy/pdfforge/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split <input.pdf> <output-dir>",
	Short: "Split a large PDF into page-bounded parts",
	Long: `Split partitions a PDF that exceeds the page threshold into parts of at
most chunk-size pages each, written as part_1.pdf through part_N.pdf. A
document at or below the threshold is left untouched and its original path
is reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().Int("chunk-size", 100, "pages per part when splitting")
	splitCmd.Flags().Int("min-pages-for-split", 200, "page count a document must exceed before splitting")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	input, outDir := args[0], args[1]

	cfg := types.SplitConfig{
		ChunkSize:        intSetting(cmd, "chunk-size", "split.chunk_size"),
		MinPagesForSplit: intSetting(cmd, "min-pages-for-split", "split.min_pages_for_split"),
	}

	splitter, err := split.New(cfg, split.NewPDFCPUEngine(), logger)
	if err != nil {
		return err
	}

	paths, err := splitter.Split(input, outDir)
	if err != nil {
		return err
	}

	if len(paths) == 1 && paths[0] == input {
		fmt.Fprintf(os.Stdout, "not split: %s (at or below %d pages)\n", input, cfg.MinPagesForSplit)
		return nil
	}

	for _, p := range paths {
		fmt.Fprintln(os.Stdout, p)
	}
	return nil
}
