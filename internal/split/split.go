// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package split partitions large PDF documents into page-bounded parts so
// the downstream converter never sees an oversized input.
package split

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/pdfforge/pkg/types"
)

// PageEngine provides the page-level PDF operations the splitter needs.
// The production engine is backed by pdfcpu; tests substitute fakes.
type PageEngine interface {
	// PageCount returns the number of pages in the PDF at path.
	PageCount(path string) (int, error)

	// ExtractRange copies pages [start, end) of src (0-based, end
	// exclusive) into a new PDF at dst, preserving page order.
	ExtractRange(src string, start, end int, dst string) error
}

// Splitter partitions documents that exceed a page threshold into
// fixed-size, page-contiguous parts. It holds no per-call state, so one
// Splitter may serve concurrent calls as long as each call targets a
// distinct output directory; two concurrent splits into the same directory
// interleave part numbering and are not supported.
type Splitter struct {
	cfg    types.SplitConfig
	engine PageEngine
	log    zerolog.Logger
}

// New returns a Splitter for the given policy. The chunk size must be at
// least one page; the threshold must not be negative.
func New(cfg types.SplitConfig, engine PageEngine, log zerolog.Logger) (*Splitter, error) {
	if cfg.ChunkSize < 1 {
		return nil, fmt.Errorf("split: chunk size must be >= 1, got %d", cfg.ChunkSize)
	}
	if cfg.MinPagesForSplit < 0 {
		return nil, fmt.Errorf("split: min pages for split must be >= 0, got %d", cfg.MinPagesForSplit)
	}
	return &Splitter{cfg: cfg, engine: engine, log: log}, nil
}

// ShouldSplit reports whether the document at path strictly exceeds the
// split threshold. An unreadable document is treated as "do not split":
// the error is logged and false returned, so a corrupt file stays in the
// batch and the conversion stage surfaces the real failure.
func (s *Splitter) ShouldSplit(path string) bool {
	pages, err := s.engine.PageCount(path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("page count failed, not splitting")
		return false
	}
	return pages > s.cfg.MinPagesForSplit
}

// Split partitions the document at path into parts of at most ChunkSize
// pages each, written to outDir as part_1.pdf through part_N.pdf and
// returned in ascending part order. When the document does not exceed the
// threshold, no file is written and the returned slice holds only the
// original path. Whether splitting triggers is decided here exactly once,
// from a single page-count read; a document that cannot be read is a hard
// error, unlike in ShouldSplit, because splitting was explicitly requested
// and cannot proceed.
//
// Each part is written under a temporary name and renamed into place, so
// an aborted run never leaves a truncated part behind under a final name.
// On any part failure the whole split fails; no partial list is returned.
func (s *Splitter) Split(path, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating split directory %s: %w", outDir, err)
	}

	pages, err := s.engine.PageCount(path)
	if err != nil {
		return nil, fmt.Errorf("reading page count of %s: %w", path, err)
	}
	if pages <= s.cfg.MinPagesForSplit {
		return []string{path}, nil
	}

	numParts := (pages + s.cfg.ChunkSize - 1) / s.cfg.ChunkSize
	s.log.Info().
		Str("path", path).
		Int("pages", pages).
		Int("parts", numParts).
		Msg("splitting document")

	parts := make([]string, 0, numParts)
	for i := 0; i < numParts; i++ {
		start := i * s.cfg.ChunkSize
		end := start + s.cfg.ChunkSize
		if end > pages {
			end = pages
		}

		dst := filepath.Join(outDir, fmt.Sprintf("part_%d.pdf", i+1))
		tmp := dst + ".tmp"
		if err := s.engine.ExtractRange(path, start, end, tmp); err != nil {
			os.Remove(tmp)
			return nil, fmt.Errorf("writing part %d of %s: %w", i+1, path, err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			os.Remove(tmp)
			return nil, fmt.Errorf("finalizing part %d of %s: %w", i+1, path, err)
		}
		parts = append(parts, dst)
	}

	return parts, nil
}
