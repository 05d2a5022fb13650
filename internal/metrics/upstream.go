// Package metrics exposes Prometheus metrics for calls to the community service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeBackend   = "backend_error"
	OutcomeMalformed = "malformed"
)

// Upstream counts and times requests to the community service, by endpoint.
type Upstream struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewUpstream creates the upstream metrics and registers them with registry.
func NewUpstream(registry prometheus.Registerer) (*Upstream, error) {
	m := &Upstream{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jewa_upstream_requests_total",
				Help: "Total number of requests sent to the community service",
			},
			[]string{"endpoint", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "jewa_upstream_request_duration_seconds",
				Help: "Time taken by requests to the community service",
				// 50ms to ~25s
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"endpoint"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records one finished request. A nil receiver is a no-op.
func (m *Upstream) Observe(endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Describe implements the Collector interface
func (m *Upstream) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *Upstream) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}
