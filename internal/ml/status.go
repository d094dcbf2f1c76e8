package ml

import (
	"time"

	"github.com/yourusername/bidsight/internal/models"
)

// Model status values.
const (
	StatusTrained = "trained"
	StatusError   = "error"
)

// ModelStatus describes one model's readiness for reporting surfaces.
// Accuracy is nil when the last run's test split held a single class.
type ModelStatus struct {
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Accuracy    *float64   `json:"accuracy"`
	LastTrained *time.Time `json:"last_trained"`
	Version     string     `json:"version,omitempty"`
}

// Status reports both models. A missing or unloadable artifact marks both
// as errored rather than failing the call.
func (e *Engine) Status() []ModelStatus {
	artifact, err := e.Current()
	if err != nil {
		e.logger.WithError(err).Warn("Model status unavailable")
		return []ModelStatus{
			{Name: models.ModelNameWin, Status: StatusError},
			{Name: models.ModelNameRisk, Status: StatusError},
		}
	}

	manifest := artifact.Manifest
	return []ModelStatus{
		modelStatus(models.ModelNameWin, manifest, manifest.WinEval),
		modelStatus(models.ModelNameRisk, manifest, manifest.RiskEval),
	}
}

func modelStatus(name string, manifest Manifest, eval Evaluation) ModelStatus {
	status := ModelStatus{
		Name:        name,
		Status:      StatusTrained,
		LastTrained: &manifest.CreatedAt,
		Version:     manifest.Version,
	}
	if eval.Evaluable {
		accuracy := eval.Accuracy
		status.Accuracy = &accuracy
	}
	return status
}

// LastTrainedAt returns when the active artifact was built, or the zero
// time when nothing is trained.
func (e *Engine) LastTrainedAt() time.Time {
	artifact, err := e.Current()
	if err != nil {
		return time.Time{}
	}
	return artifact.Manifest.CreatedAt
}

// FeatureImportance returns the active artifact's ranked win-model
// importances.
func (e *Engine) FeatureImportance() ([]FeatureWeight, error) {
	artifact, err := e.Current()
	if err != nil {
		return nil, err
	}
	return artifact.Importance, nil
}
