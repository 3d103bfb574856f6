package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the scan module. Decode volume and
// latency are the service's primary signals; cache effectiveness explains
// latency shifts.
type Metrics struct {
	ScansDecoded   *prometheus.CounterVec
	DecodeFailures *prometheus.CounterVec
	DecodeDuration prometheus.Histogram
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
}

// New creates a Metrics instance with all scan module metrics registered.
func New() *Metrics {
	return &Metrics{
		ScansDecoded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parichay_scans_decoded_total",
			Help: "Total number of successfully decoded scans",
		}, []string{"source_format", "degraded"}),
		DecodeFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parichay_decode_failures_total",
			Help: "Total number of decode failures by error code",
		}, []string{"code"}),
		DecodeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "parichay_decode_duration_seconds",
			Help:    "Duration of payload decode operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parichay_decode_cache_hits_total",
			Help: "Total number of decode cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parichay_decode_cache_misses_total",
			Help: "Total number of decode cache misses",
		}),
	}
}

// ObserveDecode records a successful decode.
func (m *Metrics) ObserveDecode(sourceFormat string, degraded bool, start time.Time) {
	if m == nil {
		return
	}
	label := "false"
	if degraded {
		label = "true"
	}
	m.ScansDecoded.WithLabelValues(sourceFormat, label).Inc()
	m.DecodeDuration.Observe(time.Since(start).Seconds())
}

// IncrementFailure records a decode failure by domain error code.
func (m *Metrics) IncrementFailure(code string) {
	if m == nil {
		return
	}
	m.DecodeFailures.WithLabelValues(code).Inc()
}

// IncrementCacheHit records a decode served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMiss records a decode that had to run the pipeline.
func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
