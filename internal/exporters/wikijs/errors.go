package wikijs

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRejected indicates Wiki.js answered but refused to create the page.
var ErrRejected = errors.New("wikijs: page creation rejected")

// APIError represents a non-2xx response or GraphQL error from Wiki.js.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("wikijs: GraphQL error: %s (URL: %s)", e.Message, e.URL)
	}
	return fmt.Sprintf("wikijs: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsUnauthorized checks if the error indicates a bad or missing token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// isRetryable reports whether a failed request may succeed when repeated.
func isRetryable(err error) bool {
	if errors.Is(err, ErrRejected) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}
