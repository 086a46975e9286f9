// Package tui provides an interactive terminal user interface for curator.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Review drives the correction session.
	Review driving.ReviewService

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(review driving.ReviewService, settings driving.SettingsService) *Ports {
	return &Ports{
		Review:   review,
		Settings: settings,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
