// Package mcp provides an MCP (Model Context Protocol) server adapter for Curator.
// It lets AI assistants inspect the review session, reorder and edit blocks,
// and export the reconciled document.
package mcp

import "errors"

// ErrMissingReviewService is returned when the review service is not provided.
var ErrMissingReviewService = errors.New("mcp: review service is required")
