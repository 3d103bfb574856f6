package audit

import (
	"context"
	"log/slog"
)

// Appender is the write half of Store. Sinks that only forward events (e.g.
// Kafka) implement this without the query methods.
type Appender interface {
	Append(ctx context.Context, event Event) error
}

// Fanout writes every event to a primary queryable store and best-effort to
// any number of additional sinks. Reads are served by the primary alone. A
// sink failure is logged, never propagated: losing a forwarded copy must not
// fail the request that produced the event.
type Fanout struct {
	primary Store
	sinks   []Appender
	logger  *slog.Logger
}

func NewFanout(primary Store, logger *slog.Logger, sinks ...Appender) *Fanout {
	return &Fanout{primary: primary, sinks: sinks, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, event Event) error {
	if err := f.primary.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range f.sinks {
		if err := sink.Append(ctx, event); err != nil && f.logger != nil {
			f.logger.Error("audit sink append failed",
				"error", err,
				"action", event.Action,
				"scan_id", event.ScanID,
			)
		}
	}
	return nil
}

func (f *Fanout) ListByScan(ctx context.Context, scanID string) ([]Event, error) {
	return f.primary.ListByScan(ctx, scanID)
}

func (f *Fanout) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return f.primary.ListRecent(ctx, limit)
}
