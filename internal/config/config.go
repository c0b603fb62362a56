package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "spiderling"

	// DefaultTargetURL is the address fetched when no targets are given.
	DefaultTargetURL = "https://config.net.cn/tools/ProvinceCityCountry.html"

	// DefaultTimeout of zero leaves the request to the HTTP client's own
	// behavior: no deadline.
	DefaultTimeout time.Duration = 0

	// DefaultUserAgent identifies spiderling in HTTP requests.
	DefaultUserAgent = "spiderling/1.0 (+https://github.com/nao1215/spiderling)"

	// DefaultMaxBodySize of zero reads bodies of any size.
	DefaultMaxBodySize int64 = 0

	// DefaultTorStartupTimeout bounds the embedded Tor daemon bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds all options for a run.
// It is populated from defaults, then the configuration file, then CLI flags.
type Config struct {
	// Targets is the ordered address sequence. Addresses are not validated
	// locally; malformed ones fail at request time.
	Targets []string

	// Timeout is the overall per-request timeout. Zero means none.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string

	// MaxBodySize caps the bytes read from a response body. A larger body
	// fails the fetch. Zero means no limit.
	MaxBodySize int64

	// Headers are extra request headers.
	Headers map[string]string

	// Cookie is a raw Cookie header value ("a=b; c=d").
	Cookie string

	// ProxyAddress is an external SOCKS5 proxy in "host:port" form.
	// Empty means direct connections.
	ProxyAddress string

	// EmbeddedTor starts a Tor daemon and routes requests through it.
	EmbeddedTor bool

	// TorStartupTimeout bounds embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// Verbose enables Debug log records.
	Verbose bool

	// JSONLog switches diagnostic lines to JSON records.
	JSONLog bool

	// JSONReport writes a JSON summary after a successful run.
	JSONReport bool

	// MarkdownReport writes a Markdown summary after a successful run.
	MarkdownReport bool

	// ReportFile writes the summary to a file instead of stdout.
	ReportFile string
}

// NewConfig creates a Config with default values.
// The default address sequence has exactly one element.
func NewConfig() *Config {
	return &Config{
		Targets:           []string{DefaultTargetURL},
		Timeout:           DefaultTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		Headers:           make(map[string]string),
		TorStartupTimeout: DefaultTorStartupTimeout,
	}
}

// WantsReport reports whether a summary should be written after the run.
func (c *Config) WantsReport() bool {
	return c.JSONReport || c.MarkdownReport || c.ReportFile != ""
}

// XDGConfigDir returns the XDG config directory for spiderling.
// On Linux: ~/.config/spiderling
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.EmbeddedTor && c.ProxyAddress != "" {
		return ErrConflictingProxies
	}
	if c.EmbeddedTor && c.TorStartupTimeout <= 0 {
		return ErrInvalidTorStartupTimeout
	}
	return nil
}

// ParseHeader splits a "Name: value" flag into its parts.
func ParseHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	return name, strings.TrimSpace(value), nil
}
