package decoder

// SourceFormat identifies which wire format produced a record.
type SourceFormat string

const (
	SourceSecureNumeric SourceFormat = "secure_numeric"
	SourceLegacyXML     SourceFormat = "legacy_xml"
)

// Contact indicator values for the secure format. The indicator is field 0 of
// the delimited section and controls which hash blocks precede the signature.
const (
	ContactNone      = 0
	ContactEmailOnly = 1
	ContactMobileOnly = 2
	ContactBoth      = 3

	// ContactNotApplicable marks legacy XML records, whose wire format
	// predates contact hashes entirely. Kept distinct from ContactNone so
	// "known absent" never collides with "secure format, no hashes".
	ContactNotApplicable = -1
)

var contactLabels = map[int]string{
	ContactNone:          "None",
	ContactEmailOnly:     "Email Only",
	ContactMobileOnly:    "Mobile Only",
	ContactBoth:          "Both",
	ContactNotApplicable: "Not Applicable",
}

// ContactLabel returns the human-readable label for a contact indicator.
// Out-of-range values yield "Unknown".
func ContactLabel(indicator int) string {
	if label, ok := contactLabels[indicator]; ok {
		return label
	}
	return "Unknown"
}

// Demographics holds the demographic fields shared by both wire formats.
// Secure-format fields 2-15 map here positionally; the legacy XML format maps
// its attribute vocabulary onto the same names.
type Demographics struct {
	Name            string `json:"name"`
	DateOfBirth     string `json:"date_of_birth"`
	Gender          string `json:"gender"`
	CareOf          string `json:"care_of"`
	District        string `json:"district"`
	Landmark        string `json:"landmark"`
	House           string `json:"house"`
	Locality        string `json:"locality"`
	Pincode         string `json:"pincode"`
	PostOffice      string `json:"post_office"`
	State           string `json:"state"`
	Street          string `json:"street"`
	SubDistrict     string `json:"sub_district"`
	VillageTownCity string `json:"village_town_city"`
}

// Photo is the embedded photo recovered from the secure payload.
type Photo struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mime_type"`
}

// ParsedReference is the decomposition of a secure-format reference ID into
// the last four digits of the identity number and its generation timestamp.
type ParsedReference struct {
	PartialID          string `json:"partial_id"`
	RawTimestamp       string `json:"raw_timestamp"`
	FormattedTimestamp string `json:"formatted_timestamp"`
}

// Record is the decoded identity-document QR payload. It is constructed once,
// synchronously, from one input string and never mutated. Fields not
// applicable to the producing format are nil/empty, never sentinel values:
// legacy XML records have no photo, hashes, or signature by construction.
type Record struct {
	SourceFormat SourceFormat `json:"source_format"`

	// ReferenceID is the raw reference field of the secure format. For the
	// legacy format it carries the masked uid attribute instead.
	ReferenceID     string           `json:"reference_id,omitempty"`
	ParsedReference *ParsedReference `json:"parsed_reference,omitempty"`

	Demographics Demographics `json:"demographics"`

	ContactIndicator int    `json:"contact_indicator"`
	ContactLabel     string `json:"contact_label"`

	Photo *Photo `json:"photo,omitempty"`

	// EmailHash and MobileHash are 32-byte values rendered as 64 hex chars;
	// empty means absent (a real hash is never empty).
	EmailHash  string `json:"email_hash,omitempty"`
	MobileHash string `json:"mobile_hash,omitempty"`

	// Signature is the 256-byte trailer signature as hex. It is extracted,
	// not verified.
	Signature string `json:"signature,omitempty"`

	// Degraded is true when the secure payload failed to decompress and the
	// raw bytes were interpreted directly. Callers may want to log or audit
	// such scans; the decoder itself stays pure.
	Degraded bool `json:"degraded,omitempty"`
}
