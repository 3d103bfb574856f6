package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"parichay/internal/scan/models"
	dErrors "parichay/pkg/domain-errors"
	"parichay/pkg/platform/httputil"
	"parichay/pkg/requestcontext"
)

// Service defines the scan operations the handler depends on.
type Service interface {
	Decode(ctx context.Context, req models.DecodeRequest) (*models.DecodeResponse, error)
	GetScan(ctx context.Context, id uuid.UUID) (*models.ScanRecord, error)
	ListScans(ctx context.Context, limit, offset int) (*models.ListResponse, error)
	GetPhoto(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	PurgeScan(ctx context.Context, id uuid.UUID) error
}

// Handler handles scan endpoints.
type Handler struct {
	logger *slog.Logger
	scans  Service
}

// New creates a new scan Handler.
func New(scans Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, scans: scans}
}

// RegisterDecode registers the decode endpoint on the given router. The
// router decides which middleware (auth, body limits) guards it.
func (h *Handler) RegisterDecode(r chi.Router) {
	r.Post("/decode", h.handleDecode)
}

// RegisterScans registers the scan history endpoints.
func (h *Handler) RegisterScans(r chi.Router) {
	r.Get("/scans/{scanID}", h.handleGetScan)
	r.Get("/scans/{scanID}/photo", h.handleGetPhoto)
}

// RegisterAdmin registers the admin-only history endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/scans", h.handleListScans)
	r.Delete("/scans/{scanID}", h.handlePurgeScan)
}

func (h *Handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.DecodeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.scans.Decode(ctx, *req)
	if err != nil {
		h.logger.WarnContext(ctx, "decode failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := scanID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	scan, err := h.scans.GetScan(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, scan)
}

func (h *Handler) handleListScans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := queryInt(r, "limit")
	offset := queryInt(r, "offset")

	list, err := h.scans.ListScans(ctx, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list scans",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, list)
}

// handleGetPhoto serves the photo as raw image bytes with the MIME type
// recorded at decode time, not as JSON.
func (h *Handler) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := scanID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	photo, mimeType, err := h.scans.GetPhoto(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(photo)))
	w.Header().Set("Content-Disposition", `attachment; filename="photo`+photoExtension(mimeType)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(photo); err != nil {
		h.logger.WarnContext(ctx, "failed to write photo response", "error", err.Error())
	}
}

func (h *Handler) handlePurgeScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := scanID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.scans.PurgeScan(ctx, id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func photoExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".jp2"
	}
}

func scanID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "scanID"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "scan ID must be a UUID")
	}
	return id, nil
}

// queryInt parses an integer query parameter; absent or malformed values
// return 0 and the service applies its defaults.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}
