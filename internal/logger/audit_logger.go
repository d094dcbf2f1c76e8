// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionUpdate logs a prediction written back to a bid.
func (al *AuditLogger) LogPredictionUpdate(bidID, modelVersion string, winProbability, riskScore float64, aiBlended bool) {
	al.WithFields(logrus.Fields{
		"bid_id":          bidID,
		"model_version":   modelVersion,
		"win_probability": winProbability,
		"risk_score":      riskScore,
		"ai_blended":      aiBlended,
	}).Info("Bid prediction recorded")
}

// LogRelationshipScoreChange logs a customer relationship score update.
func (al *AuditLogger) LogRelationshipScoreChange(customerID string, oldScore, newScore int, winRatePercent float64) {
	al.WithFields(logrus.Fields{
		"customer_id":      customerID,
		"old_score":        oldScore,
		"new_score":        newScore,
		"win_rate_percent": winRatePercent,
	}).Info("Customer relationship score updated")
}

// LogModelActivation logs a new model version becoming current.
func (al *AuditLogger) LogModelActivation(version, previousVersion string, trainingRows int) {
	al.WithFields(logrus.Fields{
		"version":          version,
		"previous_version": previousVersion,
		"training_rows":    trainingRows,
	}).Info("Model version activated")
}

// LogArtifactPrune logs removal of old model artifact versions.
func (al *AuditLogger) LogArtifactPrune(removed, keep int) {
	al.WithFields(logrus.Fields{
		"removed": removed,
		"keep":    keep,
	}).Info("Old model artifacts pruned")
}
