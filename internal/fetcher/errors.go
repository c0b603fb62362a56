package fetcher

import (
	"errors"
	"fmt"
)

// ErrFetch matches every fetch failure with errors.Is.
// Connection, DNS, TLS, timeout and body read failures are not distinguished.
var ErrFetch = errors.New("fetch failed")

// ErrBodyTooLarge is wrapped by a FetchError when the body exceeds the
// configured maximum size.
var ErrBodyTooLarge = errors.New("response body exceeds size limit")

// Stage names the step of a fetch that failed.
type Stage string

const (
	// StageRequest covers building the request and waiting for the response.
	StageRequest Stage = "request"

	// StageBody covers reading the response body.
	StageBody Stage = "body"
)

// FetchError reports a failed fetch. The stage is informational only.
type FetchError struct {
	URL   string
	Stage Stage
	Err   error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s (%s): %v", e.URL, e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
