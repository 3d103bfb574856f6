package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"parichay/internal/decoder"
	"parichay/internal/scan/models"

	"github.com/google/uuid"
)

// PostgresStore persists scans in the scans table. The decoded record is
// stored as jsonb: its shape is owned by the decoder and queried whole.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, scan *models.ScanRecord) error {
	record, err := json.Marshal(scan.Record)
	if err != nil {
		return fmt.Errorf("marshal scan record: %w", err)
	}

	query := `
		INSERT INTO scans (
			id, payload_hash, source_format, degraded, has_photo,
			device_label, client_ip, created_at, record
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		scan.ID,
		scan.PayloadHash,
		scan.SourceFormat,
		scan.Degraded,
		scan.HasPhoto,
		scan.DeviceLabel,
		scan.ClientIP,
		scan.CreatedAt,
		record,
	)
	if err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	query := `
		SELECT id, payload_hash, source_format, degraded, has_photo,
			   device_label, client_ip, created_at, record
		FROM scans
		WHERE id = $1
	`

	var (
		scan   models.ScanRecord
		record []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&scan.ID,
		&scan.PayloadHash,
		&scan.SourceFormat,
		&scan.Degraded,
		&scan.HasPhoto,
		&scan.DeviceLabel,
		&scan.ClientIP,
		&scan.CreatedAt,
		&record,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query scan: %w", err)
	}

	scan.Record = &decoder.Record{}
	if err := json.Unmarshal(record, scan.Record); err != nil {
		return nil, fmt.Errorf("unmarshal scan record: %w", err)
	}
	return &scan, nil
}

func (s *PostgresStore) List(ctx context.Context, limit, offset int) ([]models.ScanSummary, error) {
	query := `
		SELECT id, payload_hash, source_format, degraded, has_photo,
			   device_label, created_at
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	summaries := []models.ScanSummary{}
	for rows.Next() {
		var summary models.ScanSummary
		err := rows.Scan(
			&summary.ID,
			&summary.PayloadHash,
			&summary.SourceFormat,
			&summary.Degraded,
			&summary.HasPhoto,
			&summary.DeviceLabel,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return summaries, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete scan: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scan rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
