// Package httptransport wires the HTTP surface: middleware stack, health
// probes, metrics, and the versioned API routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parichay/internal/platform/config"
	"parichay/internal/platform/health"
	scanhandler "parichay/internal/scan/handler"
	"parichay/pkg/platform/middleware/admin"
	"parichay/pkg/platform/middleware/auth"
	"parichay/pkg/platform/middleware/metadata"
	"parichay/pkg/platform/middleware/request"
)

const requestTimeout = 30 * time.Second

// Deps collects everything the router needs. main builds these once and
// hands them over; the router stays free of construction logic.
type Deps struct {
	Logger         *slog.Logger
	Config         config.Server
	Scans          *scanhandler.Handler
	Health         *health.Handler
	Verifier       *auth.Verifier
	LatencyMetrics *request.Metrics
}

// NewRouter assembles the full middleware stack and routes.
//
// Route groups and their guards:
//   - /health*, /metrics: unauthenticated
//   - POST /v1/decode: bearer token (when JWT_SIGNING_KEY is set), JSON only,
//     body size capped
//   - GET /v1/scans/{id}, GET /v1/scans/{id}/photo: bearer token
//   - GET /v1/scans, DELETE /v1/scans/{id}: admin token
func NewRouter(d Deps) http.Handler {
	meta := metadata.NewMiddleware(&metadata.Config{TrustedProxies: d.Config.TrustedProxies})

	r := chi.NewRouter()
	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(meta.Handler)
	r.Use(request.Logger(d.Logger))
	r.Use(request.LatencyMiddleware(d.LatencyMetrics))

	d.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(request.Timeout(requestTimeout))

		r.Group(func(r chi.Router) {
			r.Use(request.BodyLimit(d.Config.MaxBodyBytes))
			r.Use(request.ContentTypeJSON)
			r.Use(auth.RequireToken(d.Verifier, d.Logger))
			d.Scans.RegisterDecode(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireToken(d.Verifier, d.Logger))
			d.Scans.RegisterScans(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(admin.RequireToken(d.Config.AdminTokenHash, d.Logger))
			d.Scans.RegisterAdmin(r)
		})
	})

	return r
}
