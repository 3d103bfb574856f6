package decoder

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strconv"

	dErrors "parichay/pkg/domain-errors"
)

const (
	fieldDelimiter = 0xFF
	maxFields      = 16
	signatureLen   = 256
	hashLen        = 32
)

// decodeSecure decodes a pure-digit secure payload. The pipeline is linear:
// bigint -> bytes -> inflate -> split 0xFF-delimited fields from the front,
// peel the signature/hash trailer off the back, and treat whatever remains in
// the middle as the photo.
func decodeSecure(digits string) (*Record, error) {
	raw, ok := bigIntBytes(digits)
	if !ok {
		// The sniffer guarantees digits-only input, so this cannot trip on
		// format grounds; kept as a guard for direct callers.
		return nil, dErrors.New(dErrors.CodeUnrecognizedFormat, "payload is not a decimal integer")
	}

	data, degraded := inflate(raw)

	fields, fieldsEnd := splitFields(data)

	indicator := ContactNone
	if len(fields) > 0 {
		if v, err := strconv.Atoi(fields[0]); err == nil {
			indicator = v
		}
	}

	trailer, err := extractTrailer(data, fieldsEnd, indicator)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		SourceFormat:     SourceSecureNumeric,
		ContactIndicator: indicator,
		ContactLabel:     ContactLabel(indicator),
		Signature:        trailer.signature,
		EmailHash:        trailer.emailHash,
		MobileHash:       trailer.mobileHash,
		Degraded:         degraded,
	}

	if len(fields) > 1 {
		rec.ReferenceID = fields[1]
		rec.ParsedReference = parseReference(fields[1])
	}

	mapDemographics(&rec.Demographics, fields)

	if photo := data[fieldsEnd:trailer.photoEnd]; len(photo) > 0 {
		rec.Photo = &Photo{
			Base64:   base64.StdEncoding.EncodeToString(photo),
			MIMEType: sniffPhotoMIME(photo),
		}
	}

	return rec, nil
}

// splitFields scans forward from offset 0 extracting up to 16 delimited
// fields as Latin-1 text. It stops early when no further delimiter exists;
// fewer than 16 fields is a malformed-but-usable payload, not an error.
// The returned end offset points just past the last consumed delimiter.
func splitFields(data []byte) (fields []string, end int) {
	offset := 0
	for len(fields) < maxFields {
		i := bytes.IndexByte(data[offset:], fieldDelimiter)
		if i < 0 {
			break
		}
		fields = append(fields, latin1(data[offset:offset+i]))
		offset += i + 1
	}
	return fields, offset
}

type trailer struct {
	signature  string
	emailHash  string
	mobileHash string
	// photoEnd bounds the photo region: bytes [fieldsEnd, photoEnd) are the
	// photo once the trailer has been peeled off the back.
	photoEnd int
}

// extractTrailer reads the fixed-layout suffix backward from the end of the
// payload: signature (256 bytes), then optional 32-byte hash blocks selected
// by the contact indicator. When both hashes are present the mobile hash sits
// adjacent to the signature and the email hash before it. Any underflow -
// including the trailer overlapping the front fields - is a hard error, never
// a silently negative offset.
func extractTrailer(data []byte, fieldsEnd int, indicator int) (trailer, error) {
	var t trailer

	end := len(data) - signatureLen
	if end < fieldsEnd {
		return t, dErrors.New(dErrors.CodePayloadTooShort, "payload too short for signature trailer")
	}
	t.signature = hex.EncodeToString(data[end:])

	takeHash := func() (string, error) {
		next := end - hashLen
		if next < fieldsEnd {
			return "", dErrors.New(dErrors.CodePayloadTooShort, "payload too short for contact hash trailer")
		}
		h := hex.EncodeToString(data[next:end])
		end = next
		return h, nil
	}

	var err error
	switch indicator {
	case ContactEmailOnly:
		if t.emailHash, err = takeHash(); err != nil {
			return t, err
		}
	case ContactMobileOnly:
		if t.mobileHash, err = takeHash(); err != nil {
			return t, err
		}
	case ContactBoth:
		if t.mobileHash, err = takeHash(); err != nil {
			return t, err
		}
		if t.emailHash, err = takeHash(); err != nil {
			return t, err
		}
	}

	t.photoEnd = end
	return t, nil
}

// mapDemographics maps fields 2-15 positionally onto the demographic record.
// The order is fixed by the wire format and non-reorderable. Missing trailing
// fields stay empty.
func mapDemographics(d *Demographics, fields []string) {
	targets := []*string{
		&d.Name,
		&d.DateOfBirth,
		&d.Gender,
		&d.CareOf,
		&d.District,
		&d.Landmark,
		&d.House,
		&d.Locality,
		&d.Pincode,
		&d.PostOffice,
		&d.State,
		&d.Street,
		&d.SubDistrict,
		&d.VillageTownCity,
	}
	for i, target := range targets {
		idx := i + 2
		if idx >= len(fields) {
			break
		}
		*target = fields[idx]
	}
}
