package model

import (
	"encoding/hex"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// Result is the outcome of fetching one address.
// A Result only exists for addresses whose body was fully read; failed
// fetches surface as errors and never produce a Result.
type Result struct {
	// URL is the address exactly as it appeared in the input sequence.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	// Non-2xx codes are recorded, not treated as failures.
	StatusCode int `json:"status_code"`

	// Status is the status line text (e.g. "200 OK").
	Status string `json:"status"`

	// ContentType is the raw Content-Type response header.
	ContentType string `json:"content_type,omitempty"`

	// Charset is the name of the encoding the body was decoded from.
	Charset string `json:"charset"`

	// Length is the size of the decoded text in bytes of UTF-8.
	Length int `json:"length"`

	// Runes is the number of Unicode code points in the decoded text.
	Runes int `json:"runes"`

	// Digest is the hex-encoded SHA3-256 of the decoded text.
	// Two runs against static content produce the same digest.
	Digest string `json:"digest"`

	// RequestedAt is the wall-clock time just before the request was issued.
	RequestedAt time.Time `json:"requested_at"`

	// RespondedAt is the wall-clock time the response headers arrived.
	RespondedAt time.Time `json:"responded_at"`

	// CompletedAt is the wall-clock time the body was fully decoded.
	CompletedAt time.Time `json:"completed_at"`
}

// NewResult creates a Result for the given address.
func NewResult(url string) *Result {
	return &Result{URL: url}
}

// SetBody records the decoded text's length, rune count and digest.
// The text itself is not kept.
func (r *Result) SetBody(text string) {
	r.Length = len(text)
	r.Runes = utf8.RuneCountInString(text)
	sum := sha3.Sum256([]byte(text))
	r.Digest = hex.EncodeToString(sum[:])
}

// Latency returns the time between issuing the request and the response.
func (r *Result) Latency() time.Duration {
	if r.RequestedAt.IsZero() || r.RespondedAt.IsZero() {
		return 0
	}
	return r.RespondedAt.Sub(r.RequestedAt)
}

// Elapsed returns the time between issuing the request and finishing the body.
func (r *Result) Elapsed() time.Duration {
	if r.RequestedAt.IsZero() || r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.RequestedAt)
}
