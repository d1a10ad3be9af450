// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfforge/internal/convert"
	"github.com/pdiddy/pdfforge/internal/gpu"
	"github.com/pdiddy/pdfforge/internal/manifest"
	"github.com/pdiddy/pdfforge/internal/pipeline"
	"github.com/pdiddy/pdfforge/internal/split"
	"github.com/pdiddy/pdfforge/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a PDF file or directory of PDFs to Markdown",
	Long: `Convert processes a single PDF or every PDF under a directory. Documents
above the split threshold are partitioned into page-bounded parts before
conversion; each input converts into its own output directory, optionally
packaged into a zip.

With --native-batch and a directory input, the marker binary's own batch
mode is invoked once over the whole directory instead of once per
document; splitting and per-document outcomes do not apply in that mode.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Int("chunk-size", 100, "pages per part when splitting")
	convertCmd.Flags().Int("min-pages-for-split", 200, "page count a document must exceed before splitting")
	convertCmd.Flags().Bool("split", true, "split large documents before conversion")
	convertCmd.Flags().String("langs", "English", "language hint passed to the converter")
	convertCmd.Flags().Int("batch-multiplier", 2, "converter batch size multiplier")
	convertCmd.Flags().Int("max-pages", 0, "maximum pages to convert per document (0 = all)")
	convertCmd.Flags().Int("start-page", 0, "first page to convert (0 = beginning)")
	convertCmd.Flags().Int("min-text-length", 0, "minimum extractable characters to admit a document (0 = off)")
	convertCmd.Flags().Bool("recursive", true, "search directory inputs recursively")
	convertCmd.Flags().Bool("zip", true, "package outputs into a zip archive")
	convertCmd.Flags().Bool("fail-fast", false, "abort the batch on the first failed document")
	convertCmd.Flags().Bool("native-batch", false, "use the converter's native batch mode on directory inputs")
	convertCmd.Flags().String("manifest", "", "SQLite run-manifest path (empty = no recording)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]
	cfg := pipelineConfigFromFlags(cmd)

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("reading input %s: %w", input, err)
	}

	device := gpu.Detect(logger)
	logger.Debug().Str("device", device.Device()).Msg("conversion device selected")

	if nativeBatch, _ := cmd.Flags().GetBool("native-batch"); nativeBatch {
		if !info.IsDir() {
			return fmt.Errorf("--native-batch requires a directory input")
		}
		engine, err := convert.NewMarkerBatchEngine(device.Env(), os.Stderr)
		if err != nil {
			return err
		}
		return engine.ConvertDir(input, output, convertOptions(cfg.Conversion))
	}

	engine, err := convert.NewMarkerEngine(device.Env(), os.Stderr)
	if err != nil {
		return err
	}

	splitter, err := split.New(cfg.Split, split.NewPDFCPUEngine(), logger)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg, splitter, engine, logger)
	if cfg.ManifestPath != "" {
		store, err := manifest.Open(cfg.ManifestPath)
		if err != nil {
			return err
		}
		defer store.Close()
		p.SetManifest(store)
	}

	if info.IsDir() {
		result, err := p.ProcessDirectory(input, output, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d document(s) failed", result.Failed)
		}
		return nil
	}

	artifact, res := p.ProcessFile(input, output, os.Stdout)
	if res.Outcome == types.OutcomeFailed {
		return fmt.Errorf("converting %s: %s", input, res.Err)
	}
	fmt.Fprintf(os.Stdout, "Output: %s\n", artifact)
	return nil
}

// --- shared helpers ---

func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	return types.PipelineConfig{
		Split: types.SplitConfig{
			ChunkSize:        intSetting(cmd, "chunk-size", "split.chunk_size"),
			MinPagesForSplit: intSetting(cmd, "min-pages-for-split", "split.min_pages_for_split"),
		},
		Conversion: types.ConversionConfig{
			Langs:           stringSetting(cmd, "langs", "conversion.langs"),
			BatchMultiplier: intSetting(cmd, "batch-multiplier", "conversion.batch_multiplier"),
			MaxPages:        intSetting(cmd, "max-pages", "conversion.max_pages"),
			StartPage:       intSetting(cmd, "start-page", "conversion.start_page"),
			MinTextLength:   intSetting(cmd, "min-text-length", "conversion.min_text_length"),
		},
		SplitIfLarge: boolSetting(cmd, "split", "split_if_large"),
		Recursive:    boolSetting(cmd, "recursive", "recursive"),
		CreateZip:    boolSetting(cmd, "zip", "create_zip"),
		FailFast:     boolSetting(cmd, "fail-fast", "fail_fast"),
		ManifestPath: stringSetting(cmd, "manifest", "manifest_path"),
	}
}

func convertOptions(cfg types.ConversionConfig) convert.Options {
	return convert.Options{
		Langs:           cfg.Langs,
		BatchMultiplier: cfg.BatchMultiplier,
		MaxPages:        cfg.MaxPages,
		StartPage:       cfg.StartPage,
		MinTextLength:   cfg.MinTextLength,
	}
}

// Settings resolve flag over config file: an explicitly set flag wins,
// otherwise a config file value, otherwise the flag default.

func intSetting(cmd *cobra.Command, flag, key string) int {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetInt(key)
	}
	v, _ := cmd.Flags().GetInt(flag)
	return v
}

func stringSetting(cmd *cobra.Command, flag, key string) string {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetString(key)
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if !cmd.Flags().Changed(flag) && viper.IsSet(key) {
		return viper.GetBool(key)
	}
	v, _ := cmd.Flags().GetBool(flag)
	return v
}
