// Package transport builds the HTTP client that spiderling fetches through.
//
// By default the client connects directly. It can instead route every
// connection through a SOCKS5 proxy, either an external one (for example a
// local Tor daemon on 127.0.0.1:9050) or an embedded Tor daemon managed with
// tornago.
//
//	client, err := transport.NewClient(
//	    transport.WithSOCKS5("127.0.0.1:9050"),
//	    transport.WithUserAgent("spiderling/1.0"),
//	)
//
// Connection pooling, TLS and redirects are left to net/http; the package
// only makes dialing, headers and timeouts configurable.
package transport
