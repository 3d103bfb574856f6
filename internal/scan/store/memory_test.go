package store

import (
	"context"
	"testing"
	"time"

	"parichay/internal/decoder"
	"parichay/internal/scan/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScan(createdAt time.Time) *models.ScanRecord {
	return &models.ScanRecord{
		ID:           uuid.New(),
		PayloadHash:  "abc123",
		SourceFormat: string(decoder.SourceSecureNumeric),
		HasPhoto:     true,
		DeviceLabel:  "Chrome on Linux",
		CreatedAt:    createdAt,
		Record: &decoder.Record{
			SourceFormat: decoder.SourceSecureNumeric,
			Demographics: decoder.Demographics{Name: "Jane Doe"},
		},
	}
}

func TestInMemoryStoreCreateAndFind(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	scan := newScan(time.Now())
	require.NoError(t, s.Create(ctx, scan))

	found, err := s.FindByID(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, scan.ID, found.ID)
	assert.Equal(t, "Jane Doe", found.Record.Demographics.Name)

	// Mutating the returned copy must not affect the stored scan.
	found.DeviceLabel = "tampered"
	again, err := s.FindByID(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chrome on Linux", again.DeviceLabel)
}

func TestInMemoryStoreFindMissing(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreListNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	base := time.Now()
	oldest := newScan(base.Add(-2 * time.Hour))
	middle := newScan(base.Add(-time.Hour))
	newest := newScan(base)
	for _, scan := range []*models.ScanRecord{oldest, middle, newest} {
		require.NoError(t, s.Create(ctx, scan))
	}

	summaries, err := s.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, newest.ID, summaries[0].ID)
	assert.Equal(t, oldest.ID, summaries[2].ID)

	page, err := s.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, middle.ID, page[0].ID)

	empty, err := s.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryStoreDelete(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	scan := newScan(time.Now())
	require.NoError(t, s.Create(ctx, scan))
	require.NoError(t, s.Delete(ctx, scan.ID))

	_, err := s.FindByID(ctx, scan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(ctx, scan.ID), ErrNotFound)
}
