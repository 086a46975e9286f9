package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: HTTP %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error is a 404 from the backend.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRetryable checks if the request that produced err may succeed when
// repeated. Responses other than 429 and 5xx are final.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	return true
}
