package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the redirect cap. It matches the limit of common HTTP
// client libraries so that a redirect loop fails instead of hanging.
const maxRedirects = 10

// options collects the settings applied by NewClient.
type options struct {
	socksAddr string
	timeout   time.Duration
	userAgent string
	cookie    string
	headers   map[string]string
	base      http.RoundTripper
}

// Option configures NewClient.
type Option func(*options)

// WithSOCKS5 routes all connections through the SOCKS5 proxy at addr ("host:port").
// An empty addr means direct connections.
func WithSOCKS5(addr string) Option {
	return func(o *options) {
		o.socksAddr = addr
	}
}

// WithTimeout sets the overall per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent header on requests that do not carry one.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithCookie appends a raw cookie string ("a=b; c=d") to every request.
func WithCookie(cookie string) Option {
	return func(o *options) {
		o.cookie = cookie
	}
}

// WithHeaders sets extra headers on every request.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		o.headers = headers
	}
}

// withBaseTransport replaces the dialing transport. Used by tests.
func withBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		o.base = rt
	}
}

// NewClient creates an HTTP client.
//
// The proxy address is validated but not contacted; call CheckSOCKS5 to
// verify it is reachable.
func NewClient(opts ...Option) (*http.Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	base := o.base
	if base == nil {
		t, err := newTransport(o.socksAddr)
		if err != nil {
			return nil, err
		}
		base = t
	}

	var rt = base
	if o.userAgent != "" || o.cookie != "" || len(o.headers) > 0 {
		rt = &headerInjectingTransport{
			base:      base,
			userAgent: o.userAgent,
			cookie:    o.cookie,
			headers:   o.headers,
		}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}, nil
}

// newTransport clones http.DefaultTransport, swapping in a SOCKS5 dialer
// when socksAddr is set.
func newTransport(socksAddr string) (*http.Transport, error) {
	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	if socksAddr == "" {
		return t, nil
	}

	if !isValidProxyAddress(socksAddr) {
		return nil, ErrInvalidProxyAddress
	}

	// Tor's SOCKS port does not require authentication.
	dialer, err := proxy.SOCKS5("tcp", socksAddr, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	t.Proxy = nil
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		t.DialContext = cd.DialContext
	} else {
		t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		}
	}
	return t, nil
}

// isValidProxyAddress checks for "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport adds configured headers and cookies to every
// request, including redirects.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" && clone.Header.Get("User-Agent") == "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
