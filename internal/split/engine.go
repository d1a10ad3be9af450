// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package split

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUEngine implements PageEngine with the pdfcpu library.
type PDFCPUEngine struct {
	conf *model.Configuration
}

// NewPDFCPUEngine returns the production page engine. Validation is
// relaxed so documents with minor structural defects still report a page
// count and split.
func NewPDFCPUEngine() *PDFCPUEngine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFCPUEngine{conf: conf}
}

func (e *PDFCPUEngine) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count of %s: %w", path, err)
	}
	return n, nil
}

func (e *PDFCPUEngine) ExtractRange(src string, start, end int, dst string) error {
	if start < 0 || end <= start {
		return fmt.Errorf("invalid page range [%d, %d)", start, end)
	}
	// pdfcpu page selections are 1-based and inclusive on both ends.
	sel := []string{fmt.Sprintf("%d-%d", start+1, end)}
	if err := api.TrimFile(src, dst, sel, e.conf); err != nil {
		return fmt.Errorf("pdfcpu trim pages %s of %s: %w", sel[0], src, err)
	}
	return nil
}
