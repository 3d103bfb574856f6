package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"parichay/internal/audit"

	"github.com/google/uuid"
)

// Store persists audit events in the audit_events table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO audit_events (
			id, timestamp, action, scan_id, source_format, degraded,
			reason, client_ip, device_label, request_id, client_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var scanID *uuid.UUID
	if event.ScanID != uuid.Nil {
		scanID = &event.ScanID
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		event.Timestamp,
		string(event.Action),
		scanID,
		event.SourceFormat,
		event.Degraded,
		event.Reason,
		event.ClientIP,
		event.DeviceLabel,
		event.RequestID,
		event.ClientID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByScan(ctx context.Context, scanID string) ([]audit.Event, error) {
	query := `
		SELECT timestamp, action, scan_id, source_format, degraded,
			   reason, client_ip, device_label, request_id, client_id
		FROM audit_events
		WHERE scan_id = $1
		ORDER BY timestamp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT timestamp, action, scan_id, source_format, degraded,
			   reason, client_ip, device_label, request_id, client_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event

	for rows.Next() {
		var (
			event  audit.Event
			action string
			scanID *uuid.UUID
		)

		err := rows.Scan(
			&event.Timestamp,
			&action,
			&scanID,
			&event.SourceFormat,
			&event.Degraded,
			&event.Reason,
			&event.ClientIP,
			&event.DeviceLabel,
			&event.RequestID,
			&event.ClientID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}

		event.Action = audit.Action(action)
		if scanID != nil {
			event.ScanID = *scanID
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}

	return events, nil
}
