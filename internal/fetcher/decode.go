package fetcher

import (
	"bytes"
	"mime"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// charsetUTF8 is the canonical name reported for UTF-8 bodies.
const charsetUTF8 = "utf-8"

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decodeText converts a raw body to UTF-8 text.
// It returns the text and the canonical name of the encoding used.
func decodeText(raw []byte, contentType string) (string, string) {
	enc, name, rest := sniffBOM(raw)
	if enc == nil {
		enc, name = lookupCharset(contentType)
		rest = raw
	}

	if name == charsetUTF8 && utf8.Valid(rest) {
		return string(rest), name
	}

	text, _, err := transform.Bytes(enc.NewDecoder(), rest)
	if err != nil {
		// x/text decoders substitute U+FFFD rather than fail; fall back to
		// the same substitution on the raw bytes if one ever does.
		return strings.ToValidUTF8(string(rest), "\uFFFD"), charsetUTF8
	}
	return string(text), name
}

// sniffBOM detects a byte-order mark. It returns a nil encoding when there is none.
func sniffBOM(raw []byte) (encoding.Encoding, string, []byte) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return unicode.UTF8, charsetUTF8, raw[len(bomUTF8):]
	case bytes.HasPrefix(raw, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf-16be", raw[len(bomUTF16BE):]
	case bytes.HasPrefix(raw, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf-16le", raw[len(bomUTF16LE):]
	default:
		return nil, "", raw
	}
}

// lookupCharset resolves the charset parameter of a Content-Type header
// using WHATWG labels. Missing or unknown labels resolve to UTF-8.
func lookupCharset(contentType string) (encoding.Encoding, string) {
	if contentType == "" {
		return unicode.UTF8, charsetUTF8
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return unicode.UTF8, charsetUTF8
	}
	label := params["charset"]
	if label == "" {
		return unicode.UTF8, charsetUTF8
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return unicode.UTF8, charsetUTF8
	}
	return enc, name
}
