// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetverse_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assetverse_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetverse_events_published_total",
			Help: "Domain events handed to publishers, by type.",
		},
		[]string{"type"},
	)

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assetverse_events_dropped_total",
		Help: "Events dropped because a publisher queue was full.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assetverse_websocket_clients",
		Help: "Currently connected websocket clients.",
	})

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assetverse_cache_lookups_total",
			Help: "Cache lookups by result (hit or miss).",
		},
		[]string{"result"},
	)
)
