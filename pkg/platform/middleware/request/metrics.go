package request

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parichay_http_endpoint_latency_seconds",
			Help:    "Latency of HTTP endpoints by path",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"path"}),
	}
}

func (m *Metrics) ObserveEndpointLatency(path string, seconds float64) {
	m.EndpointLatency.WithLabelValues(path).Observe(seconds)
}
