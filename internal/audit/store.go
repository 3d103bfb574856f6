package audit

import "context"

// Store persists audit events. Implementations must be safe for concurrent
// use; the publisher appends from a background goroutine.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByScan(ctx context.Context, scanID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
