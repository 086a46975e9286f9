package domain

import "time"

// ExportFormat names an export collaborator.
type ExportFormat string

// Built-in export formats.
const (
	ExportFormatJSON     ExportFormat = "json"
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatHTML     ExportFormat = "html"
	ExportFormatWikiJS   ExportFormat = "wikijs"
)

// String returns the string representation.
func (f ExportFormat) String() string {
	return string(f)
}

// ExportDocument is what the core hands to an exporter: the fully
// reconciled block sequence plus the id-to-text index derived from it.
type ExportDocument struct {
	// DocumentID identifies the reviewed document.
	DocumentID string

	// Title is used by exporters that need a page or file title.
	Title string

	// Blocks is the reconciled, document-ordered sequence.
	Blocks []Block

	// Content maps block id to its text content.
	Content map[string]string
}

// Artifact describes an exporter's output.
type Artifact struct {
	// Format is the exporter that produced the artifact.
	Format ExportFormat

	// Location is a file path or URL.
	Location string

	// Bytes is the size of the written payload.
	Bytes int

	// BlockCount is the number of exported blocks.
	BlockCount int

	// CreatedAt is when the artifact was produced.
	CreatedAt time.Time
}
