package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Registered model names. The two regressors are always trained and
// versioned together.
const (
	ModelNameWin  = "win_predictor"
	ModelNameRisk = "risk_predictor"
)

// ModelTypeGradientBoosting is the only model type the pipeline produces.
const ModelTypeGradientBoosting = "gradient_boosting"

// Model represents a registry row for one trained model in an artifact set
type Model struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name            string          `db:"name" json:"name" validate:"required"`
	Version         string          `db:"version" json:"version" validate:"required"`
	ModelType       string          `db:"model_type" json:"model_type" validate:"required"`
	Path            string          `db:"path" json:"path" validate:"required"`
	Metrics         json.RawMessage `db:"metrics" json:"metrics"`
	Hyperparameters json.RawMessage `db:"hyperparameters" json:"hyperparameters"`
	TrainedAt       time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active          bool            `db:"active" json:"active"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// GetMetric retrieves a metric value from the Metrics JSON
func (m *Model) GetMetric(name string) (float64, bool) {
	if m.Metrics == nil {
		return 0, false
	}

	var metrics map[string]float64
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return 0, false
	}

	v, ok := metrics[name]
	return v, ok
}

// Accuracy returns the recorded evaluation accuracy, if one was computed
func (m *Model) Accuracy() (float64, bool) {
	return m.GetMetric("accuracy")
}
