// Package metrics provides Prometheus metrics for the content service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	CMSFetchesTotal    *prometheus.CounterVec
	CMSFetchDuration   *prometheus.HistogramVec
	StaleDiscardsTotal prometheus.Counter
	SkippedRecords     *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_requests_total",
				Help: "Total HTTP requests by route and status.",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "content_request_duration_seconds",
				Help:    "Request handling duration by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		CMSFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_cms_fetches_total",
				Help: "Total content store fetches by collection and outcome.",
			},
			[]string{"collection", "outcome"},
		),
		CMSFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "content_cms_fetch_duration_seconds",
				Help:    "Content store fetch duration by collection.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"collection"},
		),
		StaleDiscardsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "content_stale_fetches_discarded_total",
				Help: "Month fetches discarded because a newer navigation superseded them.",
			},
		),
		SkippedRecords: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_skipped_records_total",
				Help: "Records excluded during normalization by collection and reason.",
			},
			[]string{"collection", "reason"},
		),
		registry: reg,
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.CMSFetchesTotal)
	reg.MustRegister(m.CMSFetchDuration)
	reg.MustRegister(m.StaleDiscardsTotal)
	reg.MustRegister(m.SkippedRecords)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest increments the request counter.
func (m *Metrics) RecordRequest(route, status string) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}

// ObserveRequest records a request's handling duration.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// RecordCMSFetch increments the fetch counter and observes its duration.
func (m *Metrics) RecordCMSFetch(collection, outcome string, d time.Duration) {
	m.CMSFetchesTotal.WithLabelValues(collection, outcome).Inc()
	m.CMSFetchDuration.WithLabelValues(collection).Observe(d.Seconds())
}

// RecordStaleDiscard counts a superseded month fetch.
func (m *Metrics) RecordStaleDiscard() {
	m.StaleDiscardsTotal.Inc()
}

// RecordSkippedRecord counts a record dropped during normalization.
func (m *Metrics) RecordSkippedRecord(collection, reason string) {
	m.SkippedRecords.WithLabelValues(collection, reason).Inc()
}
