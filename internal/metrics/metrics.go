// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteerhub_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "volunteerhub_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// LifecycleTotal counts submitted, approved and rejected applications.
	LifecycleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteerhub_lifecycle_total",
			Help: "Application lifecycle transitions by action.",
		},
		[]string{"action"},
	)

	EmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "volunteerhub_emails_total",
			Help: "Outbound volunteer emails by result.",
		},
		[]string{"result"},
	)

	OrphansSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "volunteerhub_orphans_swept_total",
			Help: "Unreferenced CV blobs deleted by the sweeper.",
		},
	)
)
