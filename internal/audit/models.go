package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what happened to a scan.
type Action string

const (
	ActionScanDecoded     Action = "scan_decoded"
	ActionScanDecodeFail  Action = "scan_decode_failed"
	ActionScanViewed      Action = "scan_viewed"
	ActionPhotoDownloaded Action = "photo_downloaded"
	ActionScanPurged      Action = "scan_purged"
)

// Event is emitted from domain logic to capture key actions against scans.
// It carries no demographic data: the trail must stay useful without becoming
// a second copy of the PII it describes.
type Event struct {
	Timestamp    time.Time
	Action       Action
	ScanID       uuid.UUID
	SourceFormat string
	Degraded     bool
	// Reason is populated for failure events (the domain error code).
	Reason string
	// ClientIP is already anonymized by the metadata middleware.
	ClientIP    string
	DeviceLabel string
	RequestID   string
	ClientID    string
}
