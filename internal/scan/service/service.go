package service

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"

	"parichay/internal/audit"
	"parichay/internal/scan/cache"
	scanmetrics "parichay/internal/scan/metrics"
	"parichay/internal/scan/tracer"
	dErrors "parichay/pkg/domain-errors"
)

// AuditEmitter records scan lifecycle events. Satisfied by the audit
// publisher; nil disables auditing.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

type serviceConfig struct {
	cache   cache.Cache
	auditor AuditEmitter
	metrics *scanmetrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// Option configures the ScanService.
type Option func(*serviceConfig)

// WithCache sets the decode cache. Defaults to a no-op cache.
func WithCache(c cache.Cache) Option {
	return func(cfg *serviceConfig) { cfg.cache = c }
}

// WithAuditPublisher sets the audit emitter.
func WithAuditPublisher(a AuditEmitter) Option {
	return func(cfg *serviceConfig) { cfg.auditor = a }
}

// WithMetrics sets the scan metrics. A nil Metrics is safe: all observers
// no-op.
func WithMetrics(m *scanmetrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

// WithTracer sets the tracer. Defaults to a no-op tracer.
func WithTracer(t tracer.Tracer) Option {
	return func(cfg *serviceConfig) { cfg.tracer = t }
}

// WithLogger sets the logger for non-fatal background failures.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = l }
}

// errorCode extracts the domain error code for metrics and audit labels.
func errorCode(err error) string {
	var dErr *dErrors.Error
	if errors.As(err, &dErr) {
		return string(dErr.Code)
	}
	return string(dErrors.CodeInternal)
}

// decodePhotoBytes recovers the raw photo bytes from a stored record.
func decodePhotoBytes(encoded string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(encoded)
}
