// Package fetcher implements the spiderling fetch loop.
//
// A Fetcher walks an ordered address sequence strictly one address at a
// time. For each address it logs, issues an HTTP GET, waits for the
// response, logs again, reads and decodes the whole body as text, and logs
// the decoded length:
//
//	[TID=1] [INFO] start fetching url=https://example.com/
//	[TID=1] [INFO] before issuing request url=https://example.com/ wall_time=...
//	[TID=1] [INFO] after response arrived url=https://example.com/ status="200 OK" wall_time=...
//	[TID=1] [INFO] got body url=https://example.com/ length=1256 wall_time=...
//
// The first failure aborts the whole run. There is no retry, no skipping and
// no partial result: addresses after the failing one are never requested.
//
// Bodies are decoded using the charset parameter of the Content-Type header,
// falling back to UTF-8. A byte-order mark overrides the declared charset.
// Malformed sequences become U+FFFD, so decoding itself never fails; only
// reading the body can.
package fetcher
