// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// admissionSamplePages bounds how many pages the text filter inspects, so
// admission stays cheap on very large documents.
const admissionSamplePages = 20

// TextLength returns the number of extractable plain-text characters in up
// to samplePages pages of the PDF at path. Pages whose text cannot be
// decoded are skipped; only a document that cannot be opened at all is an
// error. samplePages <= 0 inspects every page.
func TextLength(path string, samplePages int) (int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s for text sampling: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if samplePages > 0 && n > samplePages {
		n = samplePages
	}

	total := 0
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		total += len(strings.TrimSpace(text))
	}
	return total, nil
}

// Admit reports whether the document passes the minimum-text-length
// admission filter. A disabled filter admits everything. A document whose
// text cannot be sampled is admitted anyway: the converter sees it and
// reports the real failure.
func Admit(path string, minTextLength int, log zerolog.Logger) bool {
	if minTextLength <= 0 {
		return true
	}

	n, err := TextLength(path, admissionSamplePages)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("text sampling failed, admitting document")
		return true
	}
	if n < minTextLength {
		log.Debug().Str("path", path).Int("chars", n).Int("min", minTextLength).Msg("document filtered")
		return false
	}
	return true
}
