package decoder

import (
	"bytes"
	"compress/zlib"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"math/big"
	"testing"

	dErrors "parichay/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSecureBody assembles the wire body of a secure payload: each field
// terminated by the 0xFF delimiter, then photo bytes, then the back-to-front
// trailer (extra hash blocks before the signature).
func buildSecureBody(fields []string, photo []byte, hashes [][]byte, signature []byte) []byte {
	var buf bytes.Buffer
	for _, f := range fields {
		for _, r := range f {
			buf.WriteByte(byte(r)) // Latin-1: one byte per code point
		}
		buf.WriteByte(fieldDelimiter)
	}
	buf.Write(photo)
	for _, h := range hashes {
		buf.Write(h)
	}
	buf.Write(signature)
	return buf.Bytes()
}

// encodeSecure compresses a body and renders it as the decimal-digit string
// a QR scanner would hand us.
func encodeSecure(t *testing.T, body []byte) string {
	t.Helper()
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return new(big.Int).SetBytes(compressed.Bytes()).String()
}

// encodeRaw renders an uncompressed body as a decimal string, exercising the
// decompression-failure fallback path.
func encodeRaw(body []byte) string {
	return new(big.Int).SetBytes(body).String()
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

func sixteenFields(indicator, referenceID string) []string {
	fields := make([]string, maxFields)
	fields[0] = indicator
	fields[1] = referenceID
	fields[2] = "Jane Doe"
	fields[3] = "01-01-1990"
	fields[4] = "F"
	return fields
}

func TestDecodeDispatch(t *testing.T) {
	t.Run("XML prefix routes to the legacy decoder", func(t *testing.T) {
		rec, err := Decode(`<PrintLetterBarcodeData name="Jane Doe" dob="01-01-1990" gender="F" uid="1234"/>`)
		require.NoError(t, err)
		assert.Equal(t, SourceLegacyXML, rec.SourceFormat)
	})

	t.Run("leading whitespace is ignored for sniffing", func(t *testing.T) {
		rec, err := Decode("  \n\t<QPDB name=\"X\"/>")
		require.NoError(t, err)
		assert.Equal(t, SourceLegacyXML, rec.SourceFormat)
	})

	t.Run("pure digits route to the secure decoder", func(t *testing.T) {
		body := buildSecureBody(sixteenFields("0", ""), nil, nil, make([]byte, signatureLen))
		rec, err := Decode(encodeSecure(t, body))
		require.NoError(t, err)
		assert.Equal(t, SourceSecureNumeric, rec.SourceFormat)
	})

	t.Run("anything else is an unrecognized format", func(t *testing.T) {
		for _, in := range []string{
			"not xml and not digits!!",
			"123abc",
			"12 34",
			"",
			"   ",
		} {
			_, err := Decode(in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnrecognizedFormat), "input %q", in)
		}
	})
}

func TestDecodeIdempotence(t *testing.T) {
	body := buildSecureBody(
		sixteenFields("3", "123400000101120000123"),
		randomBytes(t, 300),
		[][]byte{randomBytes(t, hashLen), randomBytes(t, hashLen)},
		randomBytes(t, signatureLen),
	)
	payload := encodeSecure(t, body)

	first, err := Decode(payload)
	require.NoError(t, err)
	second, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// Scenario: a well-formed secure payload with 16 fields, a signature, and no
// photo decodes into a fully-populated record with a zero-length photo region.
func TestDecodeSecureNoPhoto(t *testing.T) {
	fields := []string{"0", "123400000101120000123", "Jane Doe", "01-01-1990", "F",
		"", "", "", "", "", "", "", "", "", "", ""}
	body := buildSecureBody(fields, nil, nil, randomBytes(t, signatureLen))

	rec, err := Decode(encodeSecure(t, body))
	require.NoError(t, err)

	assert.Equal(t, ContactNone, rec.ContactIndicator)
	assert.Equal(t, "None", rec.ContactLabel)
	assert.Empty(t, rec.EmailHash)
	assert.Empty(t, rec.MobileHash)
	assert.Nil(t, rec.Photo)
	require.NotNil(t, rec.ParsedReference)
	assert.Equal(t, "1234", rec.ParsedReference.PartialID)
	assert.Equal(t, "Jane Doe", rec.Demographics.Name)
	assert.False(t, rec.Degraded)
}

// Scenario: a payload whose digits do not decode to a valid DEFLATE stream
// still produces a record from the raw bytes, not an error.
func TestDecodeSecureDecompressionFallback(t *testing.T) {
	body := buildSecureBody(sixteenFields("0", "123400000101120000123"), nil, nil, randomBytes(t, signatureLen))

	rec, err := Decode(encodeRaw(body))
	require.NoError(t, err)

	assert.True(t, rec.Degraded)
	assert.Equal(t, "Jane Doe", rec.Demographics.Name)
	require.NotNil(t, rec.ParsedReference)
	assert.Equal(t, "1234", rec.ParsedReference.PartialID)
}

func TestDecodeLegacyScenario(t *testing.T) {
	rec, err := Decode(`<PrintLetterBarcodeData name="Jane Doe" dob="01-01-1990" gender="F" uid="1234"/>`)
	require.NoError(t, err)

	assert.Equal(t, SourceLegacyXML, rec.SourceFormat)
	assert.Equal(t, "Jane Doe", rec.Demographics.Name)
	assert.Equal(t, "01-01-1990", rec.Demographics.DateOfBirth)
	assert.Equal(t, "F", rec.Demographics.Gender)
	assert.Equal(t, "1234", rec.ReferenceID)
	assert.Nil(t, rec.Photo)
	assert.Empty(t, rec.EmailHash)
	assert.Empty(t, rec.MobileHash)
	assert.Empty(t, rec.Signature)
	assert.Equal(t, ContactNotApplicable, rec.ContactIndicator)
	assert.Equal(t, "Not Applicable", rec.ContactLabel)
}

// Round-trip structural property: fields -> delimiter-join -> trailer-append
// -> compress -> bigint-encode must decode back to the original values,
// byte-for-byte for the photo and character-for-character for text fields.
func TestDecodeSecureRoundTrip(t *testing.T) {
	fields := []string{
		"3",
		"567801012024060530123456",
		"Rémy Martin", // Latin-1 e-acute survives the round trip
		"31-12-1984",
		"M",
		"c/o Someone",
		"Test District",
		"Near Landmark",
		"H-42",
		"Some Locality",
		"560001",
		"Test PO",
		"Test State",
		"MG Road",
		"Test Taluk",
		"Test City",
	}
	photo := append([]byte{0xFF, 0xD8}, randomBytes(t, 512)...)
	emailHash := randomBytes(t, hashLen)
	mobileHash := randomBytes(t, hashLen)
	signature := randomBytes(t, signatureLen)

	// Trailer order when both hashes are present: email further back,
	// mobile adjacent to the signature.
	body := buildSecureBody(fields, photo, [][]byte{emailHash, mobileHash}, signature)

	rec, err := Decode(encodeSecure(t, body))
	require.NoError(t, err)

	assert.Equal(t, "Rémy Martin", rec.Demographics.Name)
	assert.Equal(t, "31-12-1984", rec.Demographics.DateOfBirth)
	assert.Equal(t, "M", rec.Demographics.Gender)
	assert.Equal(t, "c/o Someone", rec.Demographics.CareOf)
	assert.Equal(t, "Test District", rec.Demographics.District)
	assert.Equal(t, "Near Landmark", rec.Demographics.Landmark)
	assert.Equal(t, "H-42", rec.Demographics.House)
	assert.Equal(t, "Some Locality", rec.Demographics.Locality)
	assert.Equal(t, "560001", rec.Demographics.Pincode)
	assert.Equal(t, "Test PO", rec.Demographics.PostOffice)
	assert.Equal(t, "Test State", rec.Demographics.State)
	assert.Equal(t, "MG Road", rec.Demographics.Street)
	assert.Equal(t, "Test Taluk", rec.Demographics.SubDistrict)
	assert.Equal(t, "Test City", rec.Demographics.VillageTownCity)

	require.NotNil(t, rec.Photo)
	assert.Equal(t, "image/jpeg", rec.Photo.MIMEType)
	decodedPhoto, err := base64.StdEncoding.DecodeString(rec.Photo.Base64)
	require.NoError(t, err)
	assert.Equal(t, photo, decodedPhoto)

	assert.Equal(t, hex.EncodeToString(emailHash), rec.EmailHash)
	assert.Equal(t, hex.EncodeToString(mobileHash), rec.MobileHash)
	assert.Equal(t, hex.EncodeToString(signature), rec.Signature)
	assert.Len(t, rec.EmailHash, 64)
	assert.Len(t, rec.MobileHash, 64)
	assert.False(t, rec.Degraded)
}
