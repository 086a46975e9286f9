// Package domain defines the core business entities for curator.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Block: One extracted layout element with content and bounds
//   - Page: A transient view of one page's blocks and correction state
//   - EditedPages: Latest block sequence per page, the source of truth for edits
//   - CorrectionRecord: Frozen block id order per corrected page
//   - Intent: A user edit expressed as data (reorder, edit, delete, duplicate)
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
