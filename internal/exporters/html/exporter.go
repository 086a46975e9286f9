// Package html exports the reconciled block sequence as a standalone HTML
// page, rendered from the Markdown form with goldmark.
package html

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/exporters/filesink"
	"github.com/custodia-labs/curator-cli/internal/exporters/markdown"
)

// FileName is the artifact name inside the export directory.
const FileName = "exported.html"

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes dir/exported.html.
type Exporter struct {
	dir string
	md  goldmark.Markdown
}

// New creates an exporter writing into dir. GFM is enabled so table blocks,
// which the extractor emits as pipe tables, render as tables.
func New(dir string) *Exporter {
	return &Exporter{
		dir: dir,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Format implements driven.Exporter.
func (e *Exporter) Format() domain.ExportFormat { return domain.ExportFormatHTML }

// Render converts the document to a complete HTML page.
func (e *Exporter) Render(doc domain.ExportDocument) ([]byte, error) {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown.Render(doc)), &body); err != nil {
		return nil, fmt.Errorf("html: convert markdown: %w", err)
	}
	title := doc.Title
	if title == "" {
		title = doc.DocumentID
	}
	return []byte(fmt.Sprintf(pageTemplate, html.EscapeString(title), body.String())), nil
}

// Export renders and writes the page.
func (e *Exporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	data, err := e.Render(doc)
	if err != nil {
		return nil, err
	}
	return filesink.Write(ctx, e.Format(), e.dir, FileName, data, len(doc.Blocks))
}
