// Package jsonfile exports the reconciled block sequence as the JSON array
// the extraction backend consumes.
package jsonfile

import (
	"context"
	"fmt"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
	"github.com/custodia-labs/curator-cli/internal/core/ports/driven"
	"github.com/custodia-labs/curator-cli/internal/exporters/filesink"
	"github.com/custodia-labs/curator-cli/internal/wire"
)

// FileName is the artifact name inside the export directory.
const FileName = "reordered_bounding_boxes.json"

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Exporter writes dir/reordered_bounding_boxes.json.
type Exporter struct {
	dir string
}

// New creates an exporter writing into dir.
func New(dir string) *Exporter {
	return &Exporter{dir: dir}
}

// Format implements driven.Exporter.
func (e *Exporter) Format() domain.ExportFormat { return domain.ExportFormatJSON }

// Export writes the blocks in wire format.
func (e *Exporter) Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error) {
	data, err := wire.Encode(doc.Blocks)
	if err != nil {
		return nil, fmt.Errorf("jsonfile: %w", err)
	}
	return filesink.Write(ctx, e.Format(), e.dir, FileName, append(data, '\n'), len(doc.Blocks))
}
