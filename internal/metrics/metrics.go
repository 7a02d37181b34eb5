// Package metrics exposes Prometheus collectors for the session controller,
// the generation cache and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-widgetgen/pkg/genservice/cache"
	"github.com/goliatone/go-widgetgen/pkg/session"
)

const namespace = "widgetgen"

// Metrics holds every collector. Build one per registry.
type Metrics struct {
	generateTotal    *prometheus.CounterVec
	generateDuration *prometheus.HistogramVec
	editTotal        *prometheus.CounterVec
	editDuration     *prometheus.HistogramVec
	editsPending     prometheus.Gauge
	submissions      prometheus.Counter
	cacheLookups     *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

var (
	_ session.Metrics = (*Metrics)(nil)
	_ cache.Recorder  = (*Metrics)(nil)
)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	buckets := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60}

	return &Metrics{
		generateTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_total",
			Help:      "Widget generation requests by outcome.",
		}, []string{"outcome"}),
		generateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generate_duration_seconds",
			Help:      "Round trip time of widget generation.",
			Buckets:   buckets,
		}, []string{"outcome"}),
		editTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edit_total",
			Help:      "Widget edit requests by outcome.",
		}, []string{"outcome"}),
		editDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "edit_duration_seconds",
			Help:      "Round trip time of widget edits.",
			Buckets:   buckets,
		}, []string{"outcome"}),
		editsPending: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edits_pending",
			Help:      "Edit requests awaiting a service response.",
		}),
		submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submit controls activated.",
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Generation cache lookups by result.",
		}, []string{"result"}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Interactive sessions currently held in memory.",
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// ObserveGenerate implements session.Metrics.
func (m *Metrics) ObserveGenerate(outcome string, elapsed time.Duration) {
	m.generateTotal.WithLabelValues(outcome).Inc()
	m.generateDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveEdit implements session.Metrics.
func (m *Metrics) ObserveEdit(outcome string, elapsed time.Duration) {
	m.editTotal.WithLabelValues(outcome).Inc()
	m.editDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// EditPending implements session.Metrics.
func (m *Metrics) EditPending(delta int) {
	m.editsPending.Add(float64(delta))
}

// Submitted implements session.Metrics.
func (m *Metrics) Submitted() {
	m.submissions.Inc()
}

// CacheLookup implements cache.Recorder.
func (m *Metrics) CacheLookup(outcome string) {
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// SessionsActive records the number of live sessions.
func (m *Metrics) SessionsActive(n int) {
	m.sessionsActive.Set(float64(n))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
