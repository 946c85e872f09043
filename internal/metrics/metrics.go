package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Business metrics
	ActiveSessionsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parking_active_sessions",
			Help: "Current number of open parking sessions",
		},
	)

	SessionsOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_sessions_opened_total",
			Help: "Total number of parking sessions opened",
		},
	)

	SessionsClosedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_sessions_closed_total",
			Help: "Total number of parking sessions closed",
		},
	)

	// Approximate by nature: prometheus values are floats. Exact amounts live
	// in the store.
	RevenueChargedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_revenue_charged_total",
			Help: "Sum of fees charged on session close",
		},
	)
)
