package httptransport

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditpublisher "parichay/internal/audit/publisher"
	auditmemory "parichay/internal/audit/store/memory"
	"parichay/internal/platform/config"
	"parichay/internal/platform/health"
	scanhandler "parichay/internal/scan/handler"
	"parichay/internal/scan/models"
	"parichay/internal/scan/service"
	scanstore "parichay/internal/scan/store"
	"parichay/pkg/platform/middleware/admin"
	"parichay/pkg/platform/middleware/auth"
)

const legacyPayload = `<PrintLetterBarcodeData uid="xxxxxxxx1234" name="Jane Doe" gender="F" yob="1990" state="Karnataka"/>`

func newTestRouter(t *testing.T, cfg config.Server) http.Handler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewScanService(scanstore.NewInMemoryStore(),
		service.WithAuditPublisher(auditpublisher.New(auditmemory.NewInMemoryStore())),
	)

	return NewRouter(Deps{
		Logger:   log,
		Config:   cfg,
		Scans:    scanhandler.New(svc, log),
		Health:   health.New("test"),
		Verifier: auth.NewVerifier(cfg.JWTSigningKey),
	})
}

func decodeBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(models.DecodeRequest{Payload: legacyPayload})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDecodeWithoutAuthConfigured(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode", decodeBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Jane Doe", resp.Record.Demographics.Name)
}

func TestDecodeRequiresBearerToken(t *testing.T) {
	cfg := config.Server{
		JWTSigningKey: "test-signing-key",
		MaxBodyBytes:  config.DefaultMaxBodyBytes,
	}
	router := newTestRouter(t, cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode", decodeBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	verifier := auth.NewVerifier(cfg.JWTSigningKey)
	token, err := verifier.IssueToken("scanner-1", time.Minute)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/decode", decodeBody(t))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDecodeRejectsWrongContentType(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode", decodeBody(t))
	req.Header.Set("Content-Type", "text/plain")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAdminDisabledWithoutTokenHash(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/scans", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminListWithToken(t *testing.T) {
	hash, err := admin.HashToken("operator-secret")
	require.NoError(t, err)

	router := newTestRouter(t, config.Server{
		AdminTokenHash: hash,
		MaxBodyBytes:   config.DefaultMaxBodyBytes,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/scans", nil)
	req.Header.Set(admin.HeaderName, "operator-secret")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

// Exercise a full decode-then-view flow through the stack to catch
// middleware ordering regressions.
func TestDecodeThenViewFlow(t *testing.T) {
	router := newTestRouter(t, config.Server{MaxBodyBytes: config.DefaultMaxBodyBytes})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/decode", decodeBody(t))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded models.DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/scans/"+decoded.ScanID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var scan models.ScanRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scan))
	assert.Equal(t, decoded.ScanID, scan.ID)
}
