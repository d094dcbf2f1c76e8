// Package ml provides Prometheus metrics for model operations.
package ml

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MLPredictionsTotal tracks predictions by how they were served
	MLPredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of bid predictions served",
		},
		[]string{"source"}, // engine, cache, default
	)

	// MLPredictionLatency tracks prediction latency
	MLPredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ml_prediction_latency_seconds",
			Help:    "Bid prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MLTrainingJobsTotal tracks training runs by outcome
	MLTrainingJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ml_training_jobs_total",
			Help: "Total number of model training runs",
		},
		[]string{"status"}, // success, failure, skipped
	)

	// MLTrainingDuration tracks how long training runs take
	MLTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ml_training_duration_seconds",
			Help:    "Model training duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	// MLTrainingRows tracks the size of the last training set
	MLTrainingRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ml_training_rows",
			Help: "Number of rows in the most recent training set",
		},
	)

	// MLModelAccuracy tracks held-out accuracy per model
	MLModelAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ml_model_accuracy",
			Help: "Held-out accuracy of the active models",
		},
		[]string{"model"},
	)

	// MLCacheHitRatio tracks prediction cache effectiveness
	MLCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ml_cache_hit_ratio",
			Help: "Prediction cache hit ratio",
		},
	)
)
