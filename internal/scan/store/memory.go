package store

import (
	"context"
	"sort"
	"sync"

	"parichay/internal/scan/models"

	"github.com/google/uuid"
)

// InMemoryStore holds scans in process memory. Used in development mode when
// no database is configured, and by unit tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	scans map[uuid.UUID]*models.ScanRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{scans: make(map[uuid.UUID]*models.ScanRecord)}
}

func (s *InMemoryStore) Create(_ context.Context, scan *models.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *scan
	s.scans[scan.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scan, ok := s.scans[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *scan
	return &copied, nil
}

func (s *InMemoryStore) List(_ context.Context, limit, offset int) ([]models.ScanSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*models.ScanRecord, 0, len(s.scans))
	for _, scan := range s.scans {
		all = append(all, scan)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []models.ScanSummary{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	summaries := make([]models.ScanSummary, len(all))
	for i, scan := range all {
		summaries[i] = scan.Summary()
	}
	return summaries, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scans[id]; !ok {
		return ErrNotFound
	}
	delete(s.scans, id)
	return nil
}
