// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the processing of PDF documents into
// Markdown: discovery, admission filtering, large-document splitting,
// conversion, and packaging.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfforge/internal/archive"
	"github.com/pdiddy/pdfforge/internal/convert"
	"github.com/pdiddy/pdfforge/internal/manifest"
	"github.com/pdiddy/pdfforge/internal/scan"
	"github.com/pdiddy/pdfforge/pkg/types"
)

// Splitter partitions a document into page-bounded units, or returns the
// original path untouched when no split is needed.
type Splitter interface {
	Split(path, outDir string) ([]string, error)
}

// Pipeline processes documents sequentially. Callers that parallelize
// across documents must give each worker a distinct output root; the split
// directory is derived from the output path, so distinct output roots
// guarantee distinct split directories.
type Pipeline struct {
	cfg      types.PipelineConfig
	splitter Splitter
	engine   convert.Engine
	store    *manifest.Store
	admit    func(path string, minTextLength int, log zerolog.Logger) bool
	log      zerolog.Logger
}

// New assembles a Pipeline from its collaborators.
func New(cfg types.PipelineConfig, splitter Splitter, engine convert.Engine, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		splitter: splitter,
		engine:   engine,
		admit:    convert.Admit,
		log:      log,
	}
}

// SetManifest enables run-outcome recording into the given store.
func (p *Pipeline) SetManifest(s *manifest.Store) {
	p.store = s
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Converted int
	Skipped   int
	Filtered  int
	Failed    int
	Results   []types.DocumentResult
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Filtered + r.Failed
}

// HasFailures reports whether any document failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

func (r *BatchResult) add(res types.DocumentResult) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case types.OutcomeConverted:
		r.Converted++
	case types.OutcomeSkipped:
		r.Skipped++
	case types.OutcomeFiltered:
		r.Filtered++
	case types.OutcomeFailed:
		r.Failed++
	}
}

// ProcessFile processes a single PDF into outputPath, writing per-step
// status to w. It returns the artifact path callers should hand on: the
// zip when packaging is enabled and conversion succeeded, the output
// directory otherwise.
func (p *Pipeline) ProcessFile(inputPath, outputPath string, w io.Writer) (string, types.DocumentResult) {
	res := p.processOne(inputPath, outputPath, w)
	p.record(res)

	artifact := outputPath
	if res.Outcome == types.OutcomeConverted && p.cfg.CreateZip {
		zipPath, err := archive.CreateZip([]string{outputPath}, outputPath)
		if err != nil {
			p.log.Warn().Err(err).Str("path", outputPath).Msg("packaging failed")
		} else {
			artifact = zipPath
		}
	}
	return artifact, res
}

// ProcessDirectory processes every PDF under inputDir, mirroring each
// input's relative path under outputDir. Individual failures do not stop
// the batch unless fail-fast is configured. When packaging is enabled the
// per-document output directories are bundled into <outputDir>.zip.
func (p *Pipeline) ProcessDirectory(inputDir, outputDir string, w io.Writer) (BatchResult, error) {
	pdfs, err := scan.ListPDFs(inputDir, p.cfg.Recursive)
	if err != nil {
		return BatchResult{}, err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	var result BatchResult
	var outDirs []string
	for _, pdfPath := range pdfs {
		rel := scan.RelPath(pdfPath, inputDir)
		outPath := filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel)))

		res := p.processOne(pdfPath, outPath, w)
		p.record(res)
		result.add(res)

		if res.Outcome == types.OutcomeConverted || res.Outcome == types.OutcomeSkipped {
			outDirs = append(outDirs, outPath)
		}
		if res.Outcome == types.OutcomeFailed && p.cfg.FailFast {
			fmt.Fprintf(w, "aborting batch after %s (fail-fast)\n", res.InputPath)
			break
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d filtered, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Filtered, result.Failed, result.Total())

	if p.cfg.CreateZip && len(outDirs) > 0 {
		zipPath, err := archive.CreateZip(outDirs, outputDir)
		if err != nil {
			return result, err
		}
		fmt.Fprintf(w, "Packaged outputs into %s\n", zipPath)
	}
	return result, nil
}

// processOne runs admission, splitting, and conversion for one document.
// Splitting is triggered (or not) entirely inside the splitter; the
// pipeline never second-guesses that decision.
func (p *Pipeline) processOne(inputPath, outputPath string, w io.Writer) types.DocumentResult {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	res := types.DocumentResult{InputPath: inputPath, OutputPath: outputPath}

	if entries, err := os.ReadDir(outputPath); err == nil && len(entries) > 0 {
		fmt.Fprintf(w, "skipped: %s (output exists)\n", base)
		return p.finish(res, types.OutcomeSkipped)
	}

	if !p.admit(inputPath, p.cfg.Conversion.MinTextLength, p.log) {
		fmt.Fprintf(w, "filtered: %s (below minimum text length)\n", base)
		return p.finish(res, types.OutcomeFiltered)
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return p.fail(res, w, base, err)
	}

	units := []string{inputPath}
	if p.cfg.SplitIfLarge {
		var err error
		units, err = p.splitter.Split(inputPath, outputPath+"_split")
		if err != nil {
			return p.fail(res, w, base, err)
		}
	}
	res.Parts = len(units)

	opts := optionsFrom(p.cfg.Conversion)
	for _, unit := range units {
		unitBase := strings.TrimSuffix(filepath.Base(unit), filepath.Ext(unit))
		if err := p.engine.Convert(unit, filepath.Join(outputPath, unitBase), opts); err != nil {
			return p.fail(res, w, base, err)
		}
	}

	fmt.Fprintf(w, "converted: %s (%d part(s))\n", base, len(units))
	return p.finish(res, types.OutcomeConverted)
}

func (p *Pipeline) finish(res types.DocumentResult, outcome types.Outcome) types.DocumentResult {
	res.Outcome = outcome
	res.CompletedAt = time.Now().UTC()
	return res
}

func (p *Pipeline) fail(res types.DocumentResult, w io.Writer, base string, err error) types.DocumentResult {
	fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
	res.Err = err.Error()
	return p.finish(res, types.OutcomeFailed)
}

func (p *Pipeline) record(res types.DocumentResult) {
	if p.store == nil {
		return
	}
	if err := p.store.Record(context.Background(), res); err != nil {
		p.log.Warn().Err(err).Str("path", res.InputPath).Msg("manifest record failed")
	}
}

func optionsFrom(cfg types.ConversionConfig) convert.Options {
	return convert.Options{
		Langs:           cfg.Langs,
		BatchMultiplier: cfg.BatchMultiplier,
		MaxPages:        cfg.MaxPages,
		StartPage:       cfg.StartPage,
		MinTextLength:   cfg.MinTextLength,
	}
}
