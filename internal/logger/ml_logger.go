// Package logger provides ML-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// MLLogger provides dedicated logging for ML operations.
type MLLogger struct {
	*logrus.Entry
}

// NewMLLogger creates a new ML logger.
func NewMLLogger(baseLogger *logrus.Logger) *MLLogger {
	return &MLLogger{
		Entry: baseLogger.WithField("component", "ml"),
	}
}

// LogMLPredictionRequest logs a served bid prediction.
func (ml *MLLogger) LogMLPredictionRequest(bidID string, source string, latencyMs float64) {
	ml.WithFields(logrus.Fields{
		"bid_id":     bidID,
		"source":     source,
		"latency_ms": latencyMs,
	}).Info("ML prediction request completed")
}

// LogModelTraining logs a completed training run.
func (ml *MLLogger) LogModelTraining(version string, trainingDuration float64, rows int, metrics map[string]float64) {
	ml.WithFields(logrus.Fields{
		"version":           version,
		"training_duration": trainingDuration,
		"training_rows":     rows,
		"metrics":           metrics,
	}).Info("Model training completed")
}

// LogTrainingSkipped logs a training run that found an existing artifact.
func (ml *MLLogger) LogTrainingSkipped(version string) {
	ml.WithFields(logrus.Fields{
		"version": version,
	}).Info("Model training skipped, current artifact kept")
}

// LogMLPredictionError logs ML prediction errors.
func (ml *MLLogger) LogMLPredictionError(bidID string, errorReason string) {
	ml.WithFields(logrus.Fields{
		"bid_id":       bidID,
		"error_reason": errorReason,
	}).Error("ML prediction failed")
}
