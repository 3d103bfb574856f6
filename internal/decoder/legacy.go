package decoder

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	dErrors "parichay/pkg/domain-errors"
)

// legacyRootNames are the recognized root elements of the legacy XML format.
var legacyRootNames = map[string]bool{
	"PrintLetterBarcodeData": true,
	"QPDB":                   true,
}

// decodeLegacyXML decodes the older plain-XML payload. The legacy barcode
// predates embedded photos, so photo, hashes, and signature are always absent
// for this format; the contact indicator is fixed to "not applicable" to keep
// it distinct from a secure-format indicator of 0.
func decodeLegacyXML(text string) (*Record, error) {
	attrs, err := legacyRootAttributes(text)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		SourceFormat:     SourceLegacyXML,
		ContactIndicator: ContactNotApplicable,
		ContactLabel:     ContactLabel(ContactNotApplicable),
	}

	rec.ReferenceID = attrs.get("uid")

	d := &rec.Demographics
	d.Name = attrs.get("name")
	d.DateOfBirth = attrs.get("dob")
	if d.DateOfBirth == "" {
		d.DateOfBirth = attrs.get("yob")
	}
	d.Gender = attrs.get("gender")
	d.CareOf = attrs.get("co")
	d.District = attrs.get("dist")
	d.Landmark = attrs.get("lm")
	d.House = attrs.get("house")
	d.Locality = attrs.get("loc")
	d.Pincode = attrs.get("pc")
	d.PostOffice = attrs.get("po")
	d.State = attrs.get("state")
	d.Street = attrs.get("street")
	d.SubDistrict = attrs.get("subdist")
	d.VillageTownCity = attrs.get("vtc")

	return rec, nil
}

// attributeSet resolves attribute lookups case-sensitively first, then by
// lowercase fallback, matching the tolerance of the format's field readers.
type attributeSet struct {
	exact map[string]string
	lower map[string]string
}

func (a attributeSet) get(name string) string {
	if v, ok := a.exact[name]; ok {
		return v
	}
	return a.lower[strings.ToLower(name)]
}

// legacyRootAttributes parses the document far enough to find the root
// element and collect its attributes. A root other than the recognized tag
// names is an invalid_schema error.
func legacyRootAttributes(text string) (attributeSet, error) {
	attrs := attributeSet{
		exact: make(map[string]string),
		lower: make(map[string]string),
	}

	dec := xml.NewDecoder(strings.NewReader(text))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return attrs, dErrors.New(dErrors.CodeInvalidSchema, "XML document has no root element")
		}
		if err != nil {
			return attrs, dErrors.Wrap(err, dErrors.CodeInvalidSchema, "malformed XML payload")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !legacyRootNames[start.Name.Local] {
			return attrs, dErrors.New(dErrors.CodeInvalidSchema, "unrecognized XML schema: "+start.Name.Local)
		}

		for _, attr := range start.Attr {
			attrs.exact[attr.Name.Local] = attr.Value
			attrs.lower[strings.ToLower(attr.Name.Local)] = attr.Value
		}
		return attrs, nil
	}
}
