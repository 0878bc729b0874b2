// Package observability holds the Prometheus collectors of the blog API.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wanda_blog"

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	contentWrites  *prometheus.CounterVec
	mirrorFailures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}, []string{"method", "route"}),

		contentWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_writes_total",
			Help:      "Successful content writes by entity and operation",
		}, []string{"entity", "operation"}),

		mirrorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_mirror_failures_total",
			Help:      "Search index writes that failed after the primary write succeeded",
		}, []string{"operation"}),
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordWrite(entity, operation string) {
	if m == nil {
		return
	}
	m.contentWrites.WithLabelValues(entity, operation).Inc()
}

func (m *Metrics) RecordMirrorFailure(operation string) {
	if m == nil {
		return
	}
	m.mirrorFailures.WithLabelValues(operation).Inc()
}
