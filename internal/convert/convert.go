// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert wraps the external marker conversion binary behind
// narrow interfaces, so the rest of the tool never depends on its argument
// syntax.
package convert

import (
	"io"
	"os"
	"os/exec"
)

// Engine converts a single PDF document into Markdown under outputPath.
// A non-nil error is a hard failure for that document only.
type Engine interface {
	// Name identifies the engine for status lines and logs.
	Name() string

	// Convert renders the PDF at inputPath into outputPath.
	Convert(inputPath, outputPath string, opts Options) error
}

// BatchEngine converts every PDF under a directory in one invocation, for
// converters with a native batch mode.
type BatchEngine interface {
	Name() string

	// ConvertDir renders all PDFs under inputDir into outputDir.
	ConvertDir(inputDir, outputDir string, opts Options) error
}

// Options carries the pass-through parameters handed to the conversion
// binary unchanged.
type Options struct {
	// Langs is the language hint (e.g. "English").
	Langs string

	// BatchMultiplier scales the converter's internal batch size.
	BatchMultiplier int

	// MaxPages caps pages converted per document; zero means no cap.
	MaxPages int

	// StartPage is the first page to convert; zero starts at the beginning.
	StartPage int

	// MinTextLength is forwarded to converters that support their own
	// admission filtering; zero disables it.
	MinTextLength int
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, env []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args []string, env []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}
