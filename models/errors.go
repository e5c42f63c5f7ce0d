package models

import "fmt"

// FailureKind classifies a failed page load at the transport/render level.
type FailureKind string

const (
	FailTimeout    FailureKind = "TIMEOUT"
	FailNetwork    FailureKind = "NETWORK_ERROR"
	FailHTTPStatus FailureKind = "HTTP_STATUS"
	FailBlocked    FailureKind = "BLOCKED_OR_RATE_LIMITED"
	FailRender     FailureKind = "RENDER_ERROR"
)

// FetchError is the internal error type for a failed page load.
// It implements the error interface and supports error wrapping via Unwrap.
type FetchError struct {
	Kind       FailureKind
	URL        string
	StatusCode int // set when Kind is FailHTTPStatus or FailBlocked (0 otherwise)
	Attempt    int // 1-based attempt number, set by the retry controller
	Err        error
}

func (e *FetchError) Error() string {
	if e.Kind == FailHTTPStatus || (e.Kind == FailBlocked && e.StatusCode != 0) {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a FetchError for the given kind and URL.
func NewFetchError(kind FailureKind, url string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: url, Err: err}
}

// ExtractError is the content-level error for a page whose required
// field could not be located by either selector strategy.
type ExtractError struct {
	Field string
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}
