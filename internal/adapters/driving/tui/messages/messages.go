// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/curator-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewReview is the page review and correction view.
	ViewReview ViewType = iota
	// ViewExport is the export format picker.
	ViewExport
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewReview:
		return "review"
	case ViewExport:
		return "export"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// PageLoaded carries the result of a page fetch issued for a ticket.
type PageLoaded struct {
	Result domain.FetchResult
}

// RasterLoaded carries the rendered image of a page.
type RasterLoaded struct {
	PageIndex int
	Raster    *domain.Raster
	Err       error
}

// PageChanged signals that a page's extraction output changed on disk.
type PageChanged struct {
	PageIndex int
}

// ExportRequested asks the review view to export in a format.
type ExportRequested struct {
	Format domain.ExportFormat
}

// ExportCompleted carries the outcome of an export.
type ExportCompleted struct {
	Format   domain.ExportFormat
	Artifact *domain.Artifact
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
