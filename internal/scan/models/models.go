package models

import (
	"strings"
	"time"

	"parichay/internal/decoder"
	dErrors "parichay/pkg/domain-errors"

	"github.com/google/uuid"
)

// maxPayloadChars bounds the decoded payload text. Secure QR payloads run to
// a few thousand digits; anything past this is not a plausible scan.
const maxPayloadChars = 32768

// ScanRecord is one decoded scan as held by the history store. The raw
// payload is never stored: only its hash, the decoded record, and request
// metadata survive.
type ScanRecord struct {
	ID           uuid.UUID       `json:"id"`
	PayloadHash  string          `json:"payload_hash"`
	SourceFormat string          `json:"source_format"`
	Degraded     bool            `json:"degraded"`
	HasPhoto     bool            `json:"has_photo"`
	DeviceLabel  string          `json:"device_label,omitempty"`
	ClientIP     string          `json:"client_ip,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Record       *decoder.Record `json:"record"`
}

// DecodeRequest is the body of POST /v1/decode.
type DecodeRequest struct {
	Payload string `json:"payload"`
}

func (r *DecodeRequest) Sanitize() {
	r.Payload = strings.TrimSpace(r.Payload)
}

func (r *DecodeRequest) Validate() error {
	if r.Payload == "" {
		return dErrors.New(dErrors.CodeBadRequest, "payload is required")
	}
	if len(r.Payload) > maxPayloadChars {
		return dErrors.New(dErrors.CodeBadRequest, "payload exceeds maximum length")
	}
	return nil
}

// DecodeResponse is returned by POST /v1/decode. The record itself carries
// the decoded fields; the envelope adds the stored scan's identity.
type DecodeResponse struct {
	ScanID       uuid.UUID       `json:"scan_id"`
	SourceFormat string          `json:"source_format"`
	Degraded     bool            `json:"degraded,omitempty"`
	Cached       bool            `json:"cached,omitempty"`
	Record       *decoder.Record `json:"record"`
}

// ScanSummary is the list-view projection: no decoded record, no photo.
type ScanSummary struct {
	ID           uuid.UUID `json:"id"`
	PayloadHash  string    `json:"payload_hash"`
	SourceFormat string    `json:"source_format"`
	Degraded     bool      `json:"degraded"`
	HasPhoto     bool      `json:"has_photo"`
	DeviceLabel  string    `json:"device_label,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary projects a stored scan into its list form.
func (s *ScanRecord) Summary() ScanSummary {
	return ScanSummary{
		ID:           s.ID,
		PayloadHash:  s.PayloadHash,
		SourceFormat: s.SourceFormat,
		Degraded:     s.Degraded,
		HasPhoto:     s.HasPhoto,
		DeviceLabel:  s.DeviceLabel,
		CreatedAt:    s.CreatedAt,
	}
}

// ListResponse is returned by GET /v1/scans.
type ListResponse struct {
	Scans []ScanSummary `json:"scans"`
	Count int           `json:"count"`
}
