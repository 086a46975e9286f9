package driving

import (
	"context"

	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// ReviewService drives a single-writer review session over one document.
//
// Navigation is split in two so that interactive callers can fetch page
// content off the event loop: Navigate moves the cursor and may hand back a
// ticket, Load performs the fetch without holding session state, and Deliver
// applies the result only if the ticket's page is still current.
// Resolve chains the last two for synchronous callers.
type ReviewService interface {
	// Open reads the page count, restores any persisted session for the
	// document and loads the current page.
	Open(ctx context.Context) (domain.SessionStatus, error)

	// Status returns the derived aggregate flags.
	Status() domain.SessionStatus

	// CurrentPage returns the materialized view of the current page.
	CurrentPage() domain.Page

	// Page returns the materialized view of any page without fetching.
	Page(index int) (domain.Page, error)

	// Navigate moves to index (clamped). The ticket is nil when the page is
	// already populated.
	Navigate(index int) (domain.Page, *domain.FetchTicket)

	// Next and Previous are Navigate relative to the current page.
	Next() (domain.Page, *domain.FetchTicket)
	Previous() (domain.Page, *domain.FetchTicket)

	// Load fetches page content for a ticket.
	Load(ctx context.Context, ticket domain.FetchTicket) domain.FetchResult

	// Deliver applies a fetch result. It reports false when the result was
	// superseded by navigation.
	Deliver(ctx context.Context, result domain.FetchResult) (domain.Page, bool)

	// Resolve loads and delivers a ticket, returning the current page.
	// A nil ticket returns the current page unchanged.
	Resolve(ctx context.Context, ticket *domain.FetchTicket) domain.Page

	// GoTo is Navigate followed by Resolve.
	GoTo(ctx context.Context, index int) domain.Page

	// Apply applies an editing intent to the current page.
	Apply(ctx context.Context, intent domain.Intent) (domain.Page, error)

	// MarkCorrected freezes the current page's order and advances.
	// The returned ticket loads the page advanced to, if needed. A page
	// without content is refused with domain.ErrPageNotLoaded.
	MarkCorrected(ctx context.Context) (domain.Page, *domain.FetchTicket, error)

	// MarkUncorrected discards the current page's frozen order.
	MarkUncorrected(ctx context.Context) domain.Page

	// Refetch issues an explicit re-fetch ticket for the current page.
	Refetch() domain.FetchTicket

	// Raster returns the raster of page index, fetching it on first use.
	Raster(ctx context.Context, index int) (*domain.Raster, error)

	// OnDisplaySizeChanged recomputes overlay markers for a new display size.
	OnDisplaySizeChanged(size domain.Size) []domain.Marker

	// Markers returns overlay markers for the last known display size.
	Markers() []domain.Marker

	// MarkersAt computes markers for an explicit display size without
	// changing the interactive overlay.
	MarkersAt(ctx context.Context, display domain.Size) ([]domain.Marker, error)

	// SetRenderScale changes the source-units to raster-pixels factor.
	SetRenderScale(scale float64)

	// Reconciled returns the canonical document-wide block sequence.
	Reconciled() []domain.Block

	// Export hands the reconciled sequence to the exporter for format.
	Export(ctx context.Context, format domain.ExportFormat) (*domain.Artifact, error)

	// Formats lists available export formats.
	Formats() []domain.ExportFormat

	// Discard drops the persisted session and starts over.
	Discard(ctx context.Context) error
}
