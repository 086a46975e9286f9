package tui

import "errors"

// ErrMissingReviewService is returned when the review service is not provided.
var ErrMissingReviewService = errors.New("tui: review service is required")
