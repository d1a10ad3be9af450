// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"strconv"
)

const (
	binMarkerSingle = "marker_single"
	binMarker       = "marker"
)

// MarkerEngine runs marker_single once per document. The environment
// (e.g. TORCH_DEVICE) is fixed at construction and passed to every
// invocation.
type MarkerEngine struct {
	exec   executor
	env    []string
	stderr io.Writer
}

// NewMarkerEngine creates a single-document engine. It verifies that the
// marker_single binary is on PATH before returning.
func NewMarkerEngine(env []string, stderr io.Writer) (*MarkerEngine, error) {
	return newMarkerEngine(defaultExec, env, stderr)
}

func newMarkerEngine(exec executor, env []string, stderr io.Writer) (*MarkerEngine, error) {
	if _, err := exec.LookPath(binMarkerSingle); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binMarkerSingle, err)
	}
	return &MarkerEngine{exec: exec, env: env, stderr: stderr}, nil
}

func (m *MarkerEngine) Name() string { return binMarkerSingle }

// Convert invokes marker_single on one PDF. A non-zero exit is returned
// as an error for this document only.
func (m *MarkerEngine) Convert(inputPath, outputPath string, opts Options) error {
	args := []string{
		inputPath,
		outputPath,
		"--batch_multiplier", strconv.Itoa(opts.BatchMultiplier),
		"--langs", opts.Langs,
	}
	if opts.MaxPages > 0 {
		args = append(args, "--max_pages", strconv.Itoa(opts.MaxPages))
	}
	if opts.StartPage > 0 {
		args = append(args, "--start_page", strconv.Itoa(opts.StartPage))
	}

	if err := m.exec.Run(binMarkerSingle, args, m.env, io.Discard, m.stderr); err != nil {
		return fmt.Errorf("converting %s with %s: %w", inputPath, binMarkerSingle, err)
	}
	return nil
}

// MarkerBatchEngine runs marker once over a whole directory, using the
// converter's native batch mode.
type MarkerBatchEngine struct {
	exec   executor
	env    []string
	stderr io.Writer
}

// NewMarkerBatchEngine creates a native-batch engine. It verifies that the
// marker binary is on PATH before returning.
func NewMarkerBatchEngine(env []string, stderr io.Writer) (*MarkerBatchEngine, error) {
	return newMarkerBatchEngine(defaultExec, env, stderr)
}

func newMarkerBatchEngine(exec executor, env []string, stderr io.Writer) (*MarkerBatchEngine, error) {
	if _, err := exec.LookPath(binMarker); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binMarker, err)
	}
	return &MarkerBatchEngine{exec: exec, env: env, stderr: stderr}, nil
}

func (m *MarkerBatchEngine) Name() string { return binMarker }

// ConvertDir invokes marker over inputDir in one call.
func (m *MarkerBatchEngine) ConvertDir(inputDir, outputDir string, opts Options) error {
	args := []string{
		inputDir,
		outputDir,
		"--batch_multiplier", strconv.Itoa(opts.BatchMultiplier),
		"--langs", opts.Langs,
	}
	if opts.MaxPages > 0 {
		args = append(args, "--max", strconv.Itoa(opts.MaxPages))
	}
	if opts.MinTextLength > 0 {
		args = append(args, "--min_length", strconv.Itoa(opts.MinTextLength))
	}

	if err := m.exec.Run(binMarker, args, m.env, io.Discard, m.stderr); err != nil {
		return fmt.Errorf("batch converting %s with %s: %w", inputDir, binMarker, err)
	}
	return nil
}
