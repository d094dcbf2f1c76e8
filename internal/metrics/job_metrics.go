// Package metrics defines scheduled-job metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Job counter vectors
var (
	ScheduledJobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "scheduled_job_runs_total",
		Help:      "Total number of scheduled job runs by job and status",
	}, []string{"job", "status"})

	RelationshipScoreUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bidsight",
		Name:      "relationship_score_updates_total",
		Help:      "Total number of customer relationship score updates",
	})
)

// Job histogram vectors
var (
	ScheduledJobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bidsight",
		Name:      "scheduled_job_duration_seconds",
		Help:      "Duration of scheduled job runs by job",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 1800},
	}, []string{"job"})
)

// RecordJobRun records a scheduled job run.
// job should be one of: "training", "prediction_refresh", "customer_analytics"
// status should be one of: "success", "failure", "skipped"
func RecordJobRun(job, status string) {
	ScheduledJobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration records a scheduled job run duration.
func RecordJobDuration(job string, durationSeconds float64) {
	ScheduledJobDuration.WithLabelValues(job).Observe(durationSeconds)
}

// RecordRelationshipScoreUpdate records a customer relationship score change.
func RecordRelationshipScoreUpdate() {
	RelationshipScoreUpdatesTotal.Inc()
}
