package driven

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// PageSource supplies extracted page content for one document.
// Implementations wrap the layout extraction collaborator (a directory of
// extraction output, or the extraction backend's HTTP API).
type PageSource interface {
	// DocumentID returns a stable identifier for the document.
	// It keys persisted sessions.
	DocumentID() string

	// PageCount returns the number of pages. The core reads it once per
	// document load and treats it as immutable afterwards.
	PageCount(ctx context.Context) (int, error)

	// FetchPageBlocks returns a page's blocks in their originally-extracted
	// order. Errors are treated as transient: the page is shown empty.
	FetchPageBlocks(ctx context.Context, pageIndex int) ([]domain.Block, error)

	// FetchPageRaster returns the rendered page image used as the overlay
	// backdrop. Size may be zero when dimensions are not yet known.
	FetchPageRaster(ctx context.Context, pageIndex int) (*domain.Raster, error)
}

// PageWatcher reports pages whose extraction output changed on disk.
type PageWatcher interface {
	// Watch emits page indexes until ctx is cancelled.
	Watch(ctx context.Context) (<-chan int, error)
}
