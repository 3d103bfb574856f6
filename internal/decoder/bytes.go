package decoder

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"io"
	"math/big"
)

// bigIntBytes interprets a decimal-digit string as an arbitrary-precision
// non-negative integer and returns its minimal big-endian byte representation.
// Payloads run to hundreds of bytes, far past any machine word.
func bigIntBytes(digits string) ([]byte, bool) {
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok || n.Sign() < 0 {
		return nil, false
	}
	return n.Bytes(), true
}

// inflate decompresses a secure payload body. The stream is normally
// zlib-wrapped DEFLATE; some producers emit a bare DEFLATE stream, so that is
// tried second. When neither decodes, the raw bytes are returned with
// degraded=true rather than failing: corrupted payloads are sometimes
// partially recoverable by the field splitter. This leniency mirrors the
// format's reference tooling and is intentionally not an error path.
func inflate(raw []byte) (data []byte, degraded bool) {
	if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
		if out, err := io.ReadAll(zr); err == nil {
			zr.Close() //nolint:errcheck // fully drained
			return out, false
		}
		zr.Close() //nolint:errcheck // discarded on error
	}

	fr := flate.NewReader(bytes.NewReader(raw))
	if out, err := io.ReadAll(fr); err == nil && len(out) > 0 {
		fr.Close() //nolint:errcheck // fully drained
		return out, false
	}
	fr.Close() //nolint:errcheck // discarded on error

	return raw, true
}

// latin1 decodes bytes as ISO-8859-1 text. The wire format is defined over
// raw bytes, not UTF-8: every byte maps to the code point of the same value.
func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

// sniffPhotoMIME guesses the photo MIME type from its first two bytes.
// This is a heuristic, not a validated format check: anything that is not
// JPEG or PNG magic is assumed to be the document format's native
// wavelet-compressed (JPEG 2000) image, whose internals this package treats
// as opaque.
func sniffPhotoMIME(photo []byte) string {
	if len(photo) >= 2 {
		if photo[0] == 0xFF && photo[1] == 0xD8 {
			return "image/jpeg"
		}
		if photo[0] == 0x89 && photo[1] == 0x50 {
			return "image/png"
		}
	}
	return "image/jp2"
}
