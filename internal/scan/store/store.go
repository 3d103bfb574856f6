//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks Store

package store

import (
	"context"
	"errors"

	"parichay/internal/scan/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no scan exists for the given ID. The service
// layer maps it to a not_found domain error.
var ErrNotFound = errors.New("scan not found")

// Store persists decoded scans.
type Store interface {
	Create(ctx context.Context, scan *models.ScanRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error)
	// List returns scans newest-first.
	List(ctx context.Context, limit, offset int) ([]models.ScanSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
