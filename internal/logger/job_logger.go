// Package logger provides scheduled-job logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// JobLogger provides dedicated logging for scheduled jobs.
type JobLogger struct {
	*logrus.Entry
}

// NewJobLogger creates a new job logger.
func NewJobLogger(baseLogger *logrus.Logger) *JobLogger {
	return &JobLogger{
		Entry: baseLogger.WithField("component", "scheduler"),
	}
}

// LogJobScheduled logs a job registration with its cron spec.
func (jl *JobLogger) LogJobScheduled(jobName, spec string, nextRun time.Time) {
	jl.WithFields(logrus.Fields{
		"job":        jobName,
		"spec":       spec,
		"next_run":   nextRun,
		"event_type": "scheduled",
	}).Info("Job scheduled")
}

// LogJobStart logs a job run beginning.
func (jl *JobLogger) LogJobStart(jobName string) {
	jl.WithFields(logrus.Fields{
		"job":        jobName,
		"event_type": "start",
	}).Info("Scheduled job started")
}

// LogJobComplete logs a successful job run.
func (jl *JobLogger) LogJobComplete(jobName string, durationMs float64, details map[string]interface{}) {
	jl.WithFields(logrus.Fields{
		"job":         jobName,
		"duration_ms": durationMs,
		"details":     details,
		"event_type":  "complete",
	}).Info("Scheduled job completed")
}

// LogJobFailure logs a failed job run.
func (jl *JobLogger) LogJobFailure(jobName string, errorReason string) {
	jl.WithFields(logrus.Fields{
		"job":          jobName,
		"error_reason": errorReason,
		"event_type":   "failure",
	}).Error("Scheduled job failed")
}

// LogJobSkipped logs a job run skipped because the previous run is still going.
func (jl *JobLogger) LogJobSkipped(jobName, reason string) {
	jl.WithFields(logrus.Fields{
		"job":        jobName,
		"reason":     reason,
		"event_type": "skipped",
	}).Warn("Scheduled job skipped")
}
