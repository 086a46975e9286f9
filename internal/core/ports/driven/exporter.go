package driven

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// Exporter turns the reconciled block sequence into a persisted or
// published artifact (JSON file, markdown, HTML, a wiki page).
type Exporter interface {
	// Format returns the format identifier used to select this exporter.
	Format() domain.ExportFormat

	// Export produces the artifact. The document's blocks are the
	// reconciliation engine's output and must not be reordered.
	Export(ctx context.Context, doc domain.ExportDocument) (*domain.Artifact, error)
}
