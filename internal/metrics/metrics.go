// Package metrics collects Prometheus metrics for the HTTP surface and the
// record lifecycle, and serves them for scraping.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/tatame-api/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service exports.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	recordsCreated *prometheus.CounterVec
	statusUpdates  *prometheus.CounterVec
	quotaDenials   *prometheus.CounterVec
}

var _ events.EventHandler = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tatame_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tatame_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		recordsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tatame_records_created_total",
			Help: "Records created by resource kind.",
		}, []string{"resource"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tatame_record_status_updates_total",
			Help: "Status changes by resource kind and new status.",
		}, []string{"resource", "status"}),
		quotaDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tatame_quota_denials_total",
			Help: "Creations refused by the free-tier quota, by resource kind.",
		}, []string{"resource"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.recordsCreated,
		c.statusUpdates,
		c.quotaDenials,
	)
	return c
}

// NewRegistry returns a registry with the Go runtime and process
// collectors already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// RecordHTTPRequest records one served request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// HandleEvent counts lifecycle events.
func (c *Collector) HandleEvent(_ context.Context, event *events.Event) error {
	switch event.Type {
	case events.TypeRecordCreated:
		c.recordsCreated.WithLabelValues(event.Resource).Inc()
	case events.TypeRecordStatusUpdated:
		c.statusUpdates.WithLabelValues(event.Resource, event.Status).Inc()
	case events.TypeQuotaExceeded:
		c.quotaDenials.WithLabelValues(event.Resource).Inc()
	}
	return nil
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
