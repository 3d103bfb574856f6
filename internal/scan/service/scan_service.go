package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"parichay/internal/audit"
	"parichay/internal/decoder"
	"parichay/internal/platform/privacy"
	"parichay/internal/scan/cache"
	"parichay/internal/scan/device"
	scanmetrics "parichay/internal/scan/metrics"
	"parichay/internal/scan/models"
	"parichay/internal/scan/store"
	"parichay/internal/scan/tracer"
	dErrors "parichay/pkg/domain-errors"
	"parichay/pkg/platform/middleware/auth"
	"parichay/pkg/requestcontext"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ScanService orchestrates the decode pipeline: cache lookup, decoding,
// persistence, and the audit trail.
type ScanService struct {
	scans   store.Store
	cache   cache.Cache
	auditor AuditEmitter
	metrics *scanmetrics.Metrics
	tracer  tracer.Tracer
	logger  *slog.Logger
}

func NewScanService(scans store.Store, opts ...Option) *ScanService {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = cache.NewNoop()
	}
	if cfg.tracer == nil {
		cfg.tracer = tracer.NewNoop()
	}
	return &ScanService{
		scans:   scans,
		cache:   cfg.cache,
		auditor: cfg.auditor,
		metrics: cfg.metrics,
		tracer:  cfg.tracer,
		logger:  cfg.logger,
	}
}

// Decode runs a payload through the decode pipeline and stores the result.
// Identical payloads hit the cache and skip decoding, but every call still
// produces its own scan record: history tracks scans, not payloads.
func (s *ScanService) Decode(ctx context.Context, req models.DecodeRequest) (*models.DecodeResponse, error) {
	start := time.Now()
	payloadHash := cache.Hash(req.Payload)

	ctx, span := s.tracer.Start(ctx, tracer.SpanDecode,
		tracer.String(tracer.AttrPayloadHash, payloadHash),
	)

	record, cached, err := s.decodePayload(ctx, req.Payload, payloadHash)
	if err != nil {
		s.metrics.IncrementFailure(errorCode(err))
		s.emit(ctx, audit.Event{
			Action:   audit.ActionScanDecodeFail,
			Reason:   errorCode(err),
			ClientIP: s.clientIP(ctx),
		})
		span.End(err)
		return nil, err
	}

	span.SetAttributes(
		tracer.String(tracer.AttrSourceFormat, string(record.SourceFormat)),
		tracer.Bool(tracer.AttrDegraded, record.Degraded),
		tracer.Bool(tracer.AttrCacheHit, cached),
	)

	scan := &models.ScanRecord{
		ID:           uuid.New(),
		PayloadHash:  payloadHash,
		SourceFormat: string(record.SourceFormat),
		Degraded:     record.Degraded,
		HasPhoto:     record.Photo != nil,
		DeviceLabel:  device.Label(requestcontext.UserAgent(ctx)),
		ClientIP:     s.clientIP(ctx),
		CreatedAt:    time.Now().UTC(),
		Record:       record,
	}

	if err := s.persist(ctx, scan, payloadHash, cached); err != nil {
		span.End(err)
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionScanDecoded,
		ScanID:       scan.ID,
		SourceFormat: scan.SourceFormat,
		Degraded:     scan.Degraded,
		ClientIP:     scan.ClientIP,
		DeviceLabel:  scan.DeviceLabel,
	})
	s.metrics.ObserveDecode(scan.SourceFormat, scan.Degraded, start)
	span.End(nil)

	return &models.DecodeResponse{
		ScanID:       scan.ID,
		SourceFormat: scan.SourceFormat,
		Degraded:     scan.Degraded,
		Cached:       cached,
		Record:       record,
	}, nil
}

// decodePayload serves the record from cache when possible, falling back to
// the decoder. Cache errors other than a miss are treated as misses: the
// cache is an accelerator, never a dependency.
func (s *ScanService) decodePayload(ctx context.Context, payload, payloadHash string) (*decoder.Record, bool, error) {
	record, err := s.cache.Find(ctx, payloadHash)
	if err == nil {
		s.metrics.IncrementCacheHit()
		return record, true, nil
	}
	if !errors.Is(err, cache.ErrMiss) && s.logger != nil {
		s.logger.Warn("decode cache lookup failed", "error", err)
	}
	s.metrics.IncrementCacheMiss()

	record, err = decoder.Decode(payload)
	if err != nil {
		return nil, false, err
	}
	return record, false, nil
}

// persist stores the scan and refreshes the cache entry concurrently. A
// failed cache write is logged and dropped; a failed store write fails the
// request.
func (s *ScanService) persist(ctx context.Context, scan *models.ScanRecord, payloadHash string, cached bool) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPersist)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.scans.Create(gctx, scan); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store scan")
		}
		return nil
	})
	if !cached {
		g.Go(func() error {
			if err := s.cache.Save(gctx, payloadHash, scan.Record); err != nil && s.logger != nil {
				s.logger.Warn("decode cache save failed", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	span.End(err)
	return err
}

// GetScan returns a stored scan by ID.
func (s *ScanService) GetScan(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanGet)

	scan, err := s.scans.FindByID(ctx, id)
	if err != nil {
		err = wrapScanErr(err)
		span.End(err)
		return nil, err
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionScanViewed,
		ScanID:       scan.ID,
		SourceFormat: scan.SourceFormat,
		ClientIP:     s.clientIP(ctx),
	})
	span.End(nil)
	return scan, nil
}

// ListScans returns scan summaries newest-first. Limits outside [1, 200] are
// clamped rather than rejected.
func (s *ScanService) ListScans(ctx context.Context, limit, offset int) (*models.ListResponse, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanList)

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := s.scans.List(ctx, limit, offset)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list scans")
		span.End(err)
		return nil, err
	}
	span.End(nil)
	return &models.ListResponse{Scans: summaries, Count: len(summaries)}, nil
}

// GetPhoto returns the raw photo bytes and MIME type of a stored scan.
func (s *ScanService) GetPhoto(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	scan, err := s.scans.FindByID(ctx, id)
	if err != nil {
		return nil, "", wrapScanErr(err)
	}
	if scan.Record == nil || scan.Record.Photo == nil {
		return nil, "", dErrors.New(dErrors.CodeNotFound, "scan has no photo")
	}

	photo, err := decodePhotoBytes(scan.Record.Photo.Base64)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "stored photo is not decodable")
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionPhotoDownloaded,
		ScanID:   scan.ID,
		ClientIP: s.clientIP(ctx),
	})
	return photo, scan.Record.Photo.MIMEType, nil
}

// PurgeScan removes a scan from history. Admin-only at the transport layer.
func (s *ScanService) PurgeScan(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanPurge)

	if err := s.scans.Delete(ctx, id); err != nil {
		err = wrapScanErr(err)
		span.End(err)
		return err
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionScanPurged,
		ScanID:   id,
		ClientIP: s.clientIP(ctx),
	})
	span.End(nil)
	return nil
}

// emit records an audit event with request correlation fields filled in.
// Audit failures are logged, never surfaced: the trail must not break the
// request path.
func (s *ScanService) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientID = auth.ClientID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.Error("audit emit failed", "error", err, "action", event.Action)
	}
}

func (s *ScanService) clientIP(ctx context.Context) string {
	return privacy.AnonymizeIP(requestcontext.ClientIP(ctx))
}

func wrapScanErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "scan not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "scan lookup failed")
}
