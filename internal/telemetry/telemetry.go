// Package telemetry provides Prometheus instrumentation for the veracity
// service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/veracity/internal/domain"
)

// Outcome labels for fetch and request counters.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Metrics holds all veracity Prometheus metrics.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram

	// Classification gateway metrics
	ClassificationDuration prometheus.Histogram
	ClassificationFailures prometheus.Counter

	// Context aggregation metrics
	GatedRequests       prometheus.Counter
	SourceFetchTotal    *prometheus.CounterVec
	SourceFetchDuration *prometheus.HistogramVec
	SourcePostsTotal    *prometheus.CounterVec

	// Classification cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewMetrics registers and returns the service metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veracity_requests_total",
			Help: "Prediction requests by outcome.",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veracity_request_duration_seconds",
			Help:    "End-to-end prediction request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		ClassificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "veracity_classification_duration_seconds",
			Help:    "ML sidecar classification call duration.",
			Buckets: prometheus.DefBuckets,
		}),
		ClassificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "veracity_classification_failures_total",
			Help: "Classification gateway failures.",
		}),
		GatedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "veracity_gated_requests_total",
			Help: "Requests where context fetching was gated off by a FAKE verdict.",
		}),
		SourceFetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veracity_source_fetch_total",
			Help: "Connector fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceFetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veracity_source_fetch_duration_seconds",
			Help:    "Connector fetch duration by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		SourcePostsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veracity_source_posts_total",
			Help: "Posts returned by source.",
		}, []string{"source"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "veracity_classification_cache_hits_total",
			Help: "Classification cache hits.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "veracity_classification_cache_misses_total",
			Help: "Classification cache misses.",
		}),
	}
}

// RecordSourceFetch records one connector fetch outcome. Nil-safe so
// components can run without metrics in tests.
func (m *Metrics) RecordSourceFetch(source domain.Source, outcome string, duration time.Duration, posts int) {
	if m == nil {
		return
	}
	m.SourceFetchTotal.WithLabelValues(string(source), outcome).Inc()
	m.SourceFetchDuration.WithLabelValues(string(source)).Observe(duration.Seconds())
	if posts > 0 {
		m.SourcePostsTotal.WithLabelValues(string(source)).Add(float64(posts))
	}
}

// RecordRequest records one prediction request.
func (m *Metrics) RecordRequest(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(duration.Seconds())
}

// RecordClassification records one classification gateway call.
func (m *Metrics) RecordClassification(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.ClassificationDuration.Observe(duration.Seconds())
	if err != nil {
		m.ClassificationFailures.Inc()
	}
}

// RecordGated records a request whose context fetch was gated off.
func (m *Metrics) RecordGated() {
	if m == nil {
		return
	}
	m.GatedRequests.Inc()
}

// RecordCache records a classification cache lookup.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// Handler returns the Prometheus scrape handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
