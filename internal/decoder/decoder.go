// Package decoder converts the raw text recovered from an identity-document
// QR symbol into a structured record. Two wire formats exist: the secure
// numeric payload (a decimal string encoding a compressed, 0xFF-delimited,
// trailer-augmented byte stream) and the older plain-XML payload. Decoding is
// pure and synchronous: no I/O, no shared state, safe for concurrent use.
package decoder

import (
	"regexp"
	"strings"

	dErrors "parichay/pkg/domain-errors"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// Decode sniffs the wire format of payload and dispatches to the matching
// decoder. Text beginning with '<' is treated as legacy XML; a pure-digit
// string is treated as a secure numeric payload; anything else fails with
// an unrecognized_format error.
func Decode(payload string) (*Record, error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil, dErrors.New(dErrors.CodeUnrecognizedFormat, "empty payload")
	}

	if strings.HasPrefix(trimmed, "<") {
		return decodeLegacyXML(trimmed)
	}

	if digitsOnly.MatchString(trimmed) {
		return decodeSecure(trimmed)
	}

	return nil, dErrors.New(dErrors.CodeUnrecognizedFormat,
		"unrecognized payload: neither XML nor a pure-digit secure code")
}
