// Package metrics provides Prometheus metrics for the fixdesk server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fixdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fixdesk_live_clients",
			Help: "Number of connected live-update clients",
		},
	)
	LiveEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixdesk_live_events_published_total",
			Help: "Total number of live events published",
		},
		[]string{"type"},
	)
	HandoffsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixdesk_handoffs_total",
			Help: "Hand-off consume attempts by outcome",
		},
		[]string{"outcome"},
	)
	InventoryRowsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fixdesk_inventory_rows_imported_total",
			Help: "Total number of spare-part rows imported",
		},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func UpdateLiveClients(count int) {
	LiveClients.Set(float64(count))
}

func RecordLiveEvent(eventType string) {
	LiveEventsPublished.WithLabelValues(eventType).Inc()
}

func RecordHandoff(found bool) {
	outcome := "miss"
	if found {
		outcome = "hit"
	}
	HandoffsConsumed.WithLabelValues(outcome).Inc()
}

func RecordImport(rows int) {
	InventoryRowsImported.Add(float64(rows))
}
