// Package ai provides Prometheus metrics for advisor operations.
package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AIRequestsTotal tracks advisor requests by operation and outcome
	AIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI advisor requests",
		},
		[]string{"operation", "status"}, // success, error, malformed, disabled
	)

	// AIRequestLatency tracks advisor round-trip latency
	AIRequestLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ai_request_latency_seconds",
			Help:    "AI advisor request latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)
