// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SplitConfig holds settings for the large-document splitter.
type SplitConfig struct {
	// ChunkSize is the number of pages per part when splitting. Must be >= 1.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// MinPagesForSplit is the page count a document must strictly exceed
	// before splitting triggers. Zero splits everything with at least one page.
	MinPagesForSplit int `json:"min_pages_for_split" yaml:"min_pages_for_split"`
}

// DefaultSplitConfig returns the stock splitting parameters: 100-page
// chunks, activated above 200 pages.
func DefaultSplitConfig() SplitConfig {
	return SplitConfig{ChunkSize: 100, MinPagesForSplit: 200}
}

// ConversionConfig holds pass-through settings for the external conversion
// binary.
type ConversionConfig struct {
	// Langs is the language hint passed to the converter (e.g. "English").
	Langs string `json:"langs" yaml:"langs"`

	// BatchMultiplier scales the converter's internal batch size. Higher
	// values use more VRAM.
	BatchMultiplier int `json:"batch_multiplier" yaml:"batch_multiplier"`

	// MaxPages caps the number of pages converted per document. Zero means
	// no cap.
	MaxPages int `json:"max_pages,omitempty" yaml:"max_pages,omitempty"`

	// StartPage is the first page the converter should process. Zero means
	// start at the beginning.
	StartPage int `json:"start_page,omitempty" yaml:"start_page,omitempty"`

	// MinTextLength is the minimum number of extractable text characters a
	// document needs to be admitted for conversion. Documents below the
	// threshold are recorded as filtered. Zero disables the filter.
	MinTextLength int `json:"min_text_length,omitempty" yaml:"min_text_length,omitempty"`
}

// DefaultConversionConfig returns the stock conversion parameters.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{Langs: "English", BatchMultiplier: 2}
}

// PipelineConfig groups settings for a batch processing run.
type PipelineConfig struct {
	Split      SplitConfig      `json:"split" yaml:"split"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`

	// SplitIfLarge controls whether large documents are partitioned before
	// conversion.
	SplitIfLarge bool `json:"split_if_large" yaml:"split_if_large"`

	// Recursive controls whether directory inputs are searched recursively.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// CreateZip controls whether outputs are packaged into a zip archive.
	CreateZip bool `json:"create_zip" yaml:"create_zip"`

	// FailFast aborts a batch on the first failed document instead of
	// continuing with the rest.
	FailFast bool `json:"fail_fast" yaml:"fail_fast"`

	// ManifestPath is the SQLite run-manifest location. Empty disables
	// manifest recording.
	ManifestPath string `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty"`
}

// DefaultPipelineConfig returns the stock pipeline settings.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Split:        DefaultSplitConfig(),
		Conversion:   DefaultConversionConfig(),
		SplitIfLarge: true,
		Recursive:    true,
		CreateZip:    true,
	}
}
