package mcp

import (
	"github.com/custodia-labs/curator-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Review drives the correction session.
	Review driving.ReviewService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Review == nil {
		return ErrMissingReviewService
	}
	return nil
}
