// Package optimizer provides Prometheus metrics for solver operations.
package optimizer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OptimizeRequestsTotal tracks successful optimization requests
	OptimizeRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "optimizer_requests_total",
			Help: "Total number of successful optimization requests",
		},
	)

	// OptimizeErrorsTotal tracks failed optimization requests
	OptimizeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optimizer_errors_total",
			Help: "Total number of failed optimization requests",
		},
		[]string{"error_type"}, // network, http_error, decode, normalize
	)

	// OptimizeLatency tracks optimization request latency
	OptimizeLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "optimizer_request_latency_seconds",
			Help:    "Optimization request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
