package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required collaborator has not been wired.
	ErrNotConfigured = errors.New("not configured")

	// ErrUnsupportedFormat indicates an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Session Errors.

	// ErrSessionNotLoaded indicates the document has not been opened yet.
	ErrSessionNotLoaded = errors.New("session not loaded")

	// ErrPageOutOfRange indicates a page index outside [0, pageCount).
	ErrPageOutOfRange = errors.New("page index out of range")

	// ErrBlockNotFound indicates an operation referenced a block id absent
	// from the target page. It signals a wiring bug, not bad user input.
	ErrBlockNotFound = errors.New("block not found on page")

	// ErrPageNotLoaded indicates the page's content has not been fetched,
	// usually because its last fetch failed.
	ErrPageNotLoaded = errors.New("page not loaded")

	// Collaborator Errors.

	// ErrSourceUnavailable indicates the page source failed transiently.
	// The page is presented as empty and can be retried.
	ErrSourceUnavailable = errors.New("page source unavailable")

	// ErrExportFailed indicates an exporter could not produce its artifact.
	ErrExportFailed = errors.New("export failed")
)
