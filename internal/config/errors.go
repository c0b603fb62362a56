package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// They are sentinels so callers can use errors.Is.
var (
	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Zero means no timeout.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Zero means no limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConflictingProxies is returned when an external proxy and the
	// embedded Tor daemon are both requested.
	ErrConflictingProxies = errors.New("conflicting proxies: --proxy and --embedded-tor cannot be used together")

	// ErrInvalidTorStartupTimeout is returned when embedded Tor is enabled
	// with a non-positive startup timeout.
	ErrInvalidTorStartupTimeout = errors.New("invalid tor startup timeout: must be positive")

	// ErrInvalidHeader is returned when a header flag is not in "Name: value" form.
	ErrInvalidHeader = errors.New("invalid header: expected \"Name: value\"")
)
