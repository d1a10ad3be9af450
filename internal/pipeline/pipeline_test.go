// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfforge/internal/convert"
	"github.com/pdiddy/pdfforge/pkg/types"
)

// passthroughSplitter returns the original path, as the real splitter does
// for documents below the threshold.
type passthroughSplitter struct{}

func (passthroughSplitter) Split(path, outDir string) ([]string, error) {
	return []string{path}, nil
}

// chunkSplitter simulates a triggered split into a fixed number of parts.
type chunkSplitter struct {
	parts int
	err   error
}

func (c *chunkSplitter) Split(path, outDir string) ([]string, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, c.parts)
	for i := range paths {
		p := filepath.Join(outDir, "part_"+string(rune('1'+i))+".pdf")
		if err := os.WriteFile(p, []byte("part"), 0o644); err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

// fakeEngine records conversions and writes a Markdown file per call, so
// packaging has something to bundle. Paths listed in failFor fail.
type fakeEngine struct {
	calls   []string
	failFor map[string]bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Convert(inputPath, outputPath string, opts convert.Options) error {
	f.calls = append(f.calls, inputPath)
	if f.failFor[inputPath] {
		return errors.New("exit status 1")
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputPath, "out.md"), []byte("# md"), 0o644)
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newPipeline(cfg types.PipelineConfig, s Splitter, e convert.Engine) *Pipeline {
	p := New(cfg, s, e, zerolog.Nop())
	p.admit = func(string, int, zerolog.Logger) bool { return true }
	return p
}

func TestProcessFile_Converted(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "doc.pdf")
	output := filepath.Join(tmp, "out", "doc")

	cfg := types.DefaultPipelineConfig()
	engine := &fakeEngine{}
	p := newPipeline(cfg, passthroughSplitter{}, engine)

	var log bytes.Buffer
	artifact, res := p.ProcessFile(input, output, &log)

	if res.Outcome != types.OutcomeConverted {
		t.Fatalf("outcome = %q, want converted (log: %s)", res.Outcome, log.String())
	}
	if res.Parts != 1 {
		t.Errorf("parts = %d, want 1", res.Parts)
	}
	if len(engine.calls) != 1 || engine.calls[0] != input {
		t.Errorf("engine calls = %v, want one call on the original", engine.calls)
	}
	if artifact != output+".zip" {
		t.Errorf("artifact = %q, want %q", artifact, output+".zip")
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("expected zip at %s: %v", artifact, err)
	}
}

func TestProcessFile_SplitUnitsConvertedInOrder(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "big.pdf")
	output := filepath.Join(tmp, "out", "big")

	cfg := types.DefaultPipelineConfig()
	cfg.CreateZip = false
	engine := &fakeEngine{}
	p := newPipeline(cfg, &chunkSplitter{parts: 3}, engine)

	var log bytes.Buffer
	_, res := p.ProcessFile(input, output, &log)

	if res.Outcome != types.OutcomeConverted {
		t.Fatalf("outcome = %q, want converted", res.Outcome)
	}
	if res.Parts != 3 {
		t.Errorf("parts = %d, want 3", res.Parts)
	}
	if len(engine.calls) != 3 {
		t.Fatalf("engine calls = %d, want 3", len(engine.calls))
	}
	for i, call := range engine.calls {
		wantBase := "part_" + string(rune('1'+i)) + ".pdf"
		if filepath.Base(call) != wantBase {
			t.Errorf("calls[%d] = %q, want base %q", i, call, wantBase)
		}
	}
}

func TestProcessFile_SplitDisabled(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "big.pdf")

	cfg := types.DefaultPipelineConfig()
	cfg.SplitIfLarge = false
	cfg.CreateZip = false
	engine := &fakeEngine{}
	// The splitter would produce parts, but it must never be consulted.
	p := newPipeline(cfg, &chunkSplitter{err: errors.New("splitter must not run")}, engine)

	var log bytes.Buffer
	_, res := p.ProcessFile(input, filepath.Join(tmp, "out", "big"), &log)

	if res.Outcome != types.OutcomeConverted {
		t.Fatalf("outcome = %q, want converted", res.Outcome)
	}
	if len(engine.calls) != 1 {
		t.Errorf("engine calls = %d, want 1", len(engine.calls))
	}
}

func TestProcessFile_SplitErrorFails(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "corrupt.pdf")

	cfg := types.DefaultPipelineConfig()
	engine := &fakeEngine{}
	p := newPipeline(cfg, &chunkSplitter{err: errors.New("not a pdf")}, engine)

	var log bytes.Buffer
	_, res := p.ProcessFile(input, filepath.Join(tmp, "out", "corrupt"), &log)

	if res.Outcome != types.OutcomeFailed {
		t.Fatalf("outcome = %q, want failed", res.Outcome)
	}
	if res.Err == "" {
		t.Error("expected error text in result")
	}
	if len(engine.calls) != 0 {
		t.Errorf("engine calls = %d, want 0 after split failure", len(engine.calls))
	}
}

func TestProcessFile_Filtered(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "scan.pdf")

	cfg := types.DefaultPipelineConfig()
	engine := &fakeEngine{}
	p := newPipeline(cfg, passthroughSplitter{}, engine)
	p.admit = func(string, int, zerolog.Logger) bool { return false }

	var log bytes.Buffer
	_, res := p.ProcessFile(input, filepath.Join(tmp, "out", "scan"), &log)

	if res.Outcome != types.OutcomeFiltered {
		t.Fatalf("outcome = %q, want filtered", res.Outcome)
	}
	if len(engine.calls) != 0 {
		t.Errorf("engine calls = %d, want 0 for filtered document", len(engine.calls))
	}
	if !strings.Contains(log.String(), "filtered:") {
		t.Errorf("log %q missing filtered status", log.String())
	}
}

func TestProcessFile_SkipsExistingOutput(t *testing.T) {
	tmp := t.TempDir()
	input := writePDF(t, tmp, "doc.pdf")
	output := filepath.Join(tmp, "out", "doc")
	if err := os.MkdirAll(output, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(output, "doc.md"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	engine := &fakeEngine{}
	p := newPipeline(types.DefaultPipelineConfig(), passthroughSplitter{}, engine)

	var log bytes.Buffer
	_, res := p.ProcessFile(input, output, &log)

	if res.Outcome != types.OutcomeSkipped {
		t.Fatalf("outcome = %q, want skipped", res.Outcome)
	}
	if len(engine.calls) != 0 {
		t.Errorf("engine calls = %d, want 0 for skipped document", len(engine.calls))
	}
}

func TestProcessDirectory_ContinuesAfterFailure(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	writePDF(t, inDir, "a.pdf")
	bad := writePDF(t, inDir, "b.pdf")
	writePDF(t, inDir, "sub/c.pdf")

	cfg := types.DefaultPipelineConfig()
	cfg.CreateZip = false
	engine := &fakeEngine{failFor: map[string]bool{bad: true}}
	p := newPipeline(cfg, passthroughSplitter{}, engine)

	var log bytes.Buffer
	result, err := p.ProcessDirectory(inDir, filepath.Join(tmp, "out"), &log)
	if err != nil {
		t.Fatal(err)
	}

	if result.Converted != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 converted 1 failed", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !strings.Contains(log.String(), "Batch summary:") {
		t.Errorf("log missing batch summary:\n%s", log.String())
	}

	// Relative layout: sub/c.pdf converts into out/sub/c.
	if _, err := os.Stat(filepath.Join(tmp, "out", "sub", "c", "out.md")); err != nil {
		t.Errorf("expected nested output for sub/c.pdf: %v", err)
	}
}

func TestProcessDirectory_FailFast(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	bad := writePDF(t, inDir, "a.pdf")
	writePDF(t, inDir, "b.pdf")

	cfg := types.DefaultPipelineConfig()
	cfg.CreateZip = false
	cfg.FailFast = true
	engine := &fakeEngine{failFor: map[string]bool{bad: true}}
	p := newPipeline(cfg, passthroughSplitter{}, engine)

	var log bytes.Buffer
	result, err := p.ProcessDirectory(inDir, filepath.Join(tmp, "out"), &log)
	if err != nil {
		t.Fatal(err)
	}

	if result.Total() != 1 {
		t.Errorf("Total() = %d, want 1 (batch aborted)", result.Total())
	}
	if len(engine.calls) != 1 {
		t.Errorf("engine calls = %d, want 1", len(engine.calls))
	}
}

func TestProcessDirectory_PackagesOutputs(t *testing.T) {
	tmp := t.TempDir()
	inDir := filepath.Join(tmp, "in")
	writePDF(t, inDir, "a.pdf")

	cfg := types.DefaultPipelineConfig()
	engine := &fakeEngine{}
	p := newPipeline(cfg, passthroughSplitter{}, engine)

	outDir := filepath.Join(tmp, "out")
	var log bytes.Buffer
	if _, err := p.ProcessDirectory(inDir, outDir, &log); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(outDir + ".zip"); err != nil {
		t.Errorf("expected batch archive at %s.zip: %v", outDir, err)
	}
}
