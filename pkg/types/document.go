// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Outcome classifies what happened to one input document during a run.
type Outcome string

const (
	// OutcomeConverted means the document (or all of its split parts) was
	// converted to Markdown.
	OutcomeConverted Outcome = "converted"

	// OutcomeSkipped means the output already existed and conversion was
	// not attempted.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeFiltered means the document fell below the minimum-text-length
	// admission threshold and was not converted.
	OutcomeFiltered Outcome = "filtered"

	// OutcomeFailed means splitting or conversion returned an error.
	OutcomeFailed Outcome = "failed"
)

// DocumentResult records the outcome of processing one input document.
type DocumentResult struct {
	// InputPath is the source PDF path.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the directory holding the converted Markdown.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Outcome classifies the result.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Parts is the number of split units conversion operated on; 1 when the
	// document was not split.
	Parts int `json:"parts" yaml:"parts"`

	// Err holds the failure message for OutcomeFailed, empty otherwise.
	Err string `json:"error,omitempty" yaml:"error,omitempty"`

	// CompletedAt is when processing of this document finished.
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}
