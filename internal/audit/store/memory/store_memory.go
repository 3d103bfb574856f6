package memory

import (
	"context"
	"sync"

	"parichay/internal/audit"
)

// InMemoryStore keeps audit events in process memory. Used in development
// mode and by tests; events are grouped by scan for cheap lookup.
type InMemoryStore struct {
	mu      sync.RWMutex
	byScan  map[string][]audit.Event
	ordered []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byScan: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byScan = make(map[string][]audit.Event)
	s.ordered = nil
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := event.ScanID.String()
	s.byScan[key] = append(s.byScan[key], event)
	s.ordered = append(s.ordered, event)
	return nil
}

func (s *InMemoryStore) ListByScan(_ context.Context, scanID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.byScan[scanID]...), nil
}

// ListRecent returns the most recent N events in append order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := len(s.ordered) - limit
	if start < 0 {
		start = 0
	}
	return append([]audit.Event{}, s.ordered[start:]...), nil
}
