package decoder

import "fmt"

// minReferenceLen is the shortest reference ID that can carry both the
// 4-digit partial identifier and a 14-character timestamp.
const minReferenceLen = 18

// parseReference decomposes a secure-format reference ID into the last four
// digits of the identity number and the embedded generation timestamp.
// Inputs shorter than 18 characters return nil: an expected degraded case for
// truncated references, not an error.
//
// The timestamp substrings are taken verbatim with no calendar validation -
// a day of "99" is formatted as-is. This sub-parser only re-formats
// positionally.
func parseReference(ref string) *ParsedReference {
	if len(ref) < minReferenceLen {
		return nil
	}

	rest := ref[4:]
	parsed := &ParsedReference{
		PartialID:    ref[:4],
		RawTimestamp: rest,
	}

	// A tail too short for day/month/year/hour/minute/second still yields a
	// present-but-unformatted result.
	if len(rest) < 14 {
		parsed.FormattedTimestamp = rest
		return parsed
	}

	parsed.FormattedTimestamp = fmt.Sprintf("%s-%s-%s %s:%s:%s.%s",
		rest[0:2],   // day
		rest[2:4],   // month
		rest[4:8],   // year
		rest[8:10],  // hour
		rest[10:12], // minute
		rest[12:14], // second
		rest[14:],   // millisecond, possibly empty
	)
	return parsed
}
