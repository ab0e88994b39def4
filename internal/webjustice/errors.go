package webjustice

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotReady is returned by GetProcesses when the search has not been
	// consolidated yet (HTTP 425 Too Early).
	ErrNotReady = errors.New("search results not ready")

	// ErrAuthentication is returned when the API key is rejected.
	ErrAuthentication = errors.New("API authentication failed")
)

// APIError describes a failed call to the Web Justice API. Exactly one of
// StatusCode (the server answered) or Err (the request failed) is set, except
// for status errors that also wrap a sentinel.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
	// Timeout is set when the per-request deadline expired, as opposed to
	// the caller's context or the polling budget.
	Timeout bool
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s: request timed out: %v", e.Op, e.Err)
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: HTTP %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// retryable reports whether repeating the same idempotent request may succeed.
func (e *APIError) retryable() bool {
	if e.StatusCode != 0 {
		return e.StatusCode >= http.StatusInternalServerError
	}
	return true
}
