// Package markdown exports the reconciled block sequence as a Markdown
// document.
package markdown

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/exporters/filesink"
)

// FileName is the artifact name inside the export directory.
const FileName = "exported.md"

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes dir/exported.md.
type Exporter struct {
	dir string
}

// New creates an exporter writing into dir.
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Format implements driven.Exporter.
func (e *Exporter) Format() domain.ExportFormat { return domain.ExportFormatMarkdown }

// Export renders and writes the document.
func (e *Exporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	return filesink.Write(ctx, e.Format(), e.dir, FileName, []byte(Render(doc)), len(doc.Blocks))
}
