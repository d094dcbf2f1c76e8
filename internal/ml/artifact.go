package ml

import (
	"time"

	"github.com/yourusername/bidsight/internal/gbm"
	"github.com/yourusername/bidsight/internal/preprocess"
)

// Manifest describes one persisted training run. It is written alongside
// the model files and read back to validate compatibility before loading.
type Manifest struct {
	SchemaVersion int        `json:"schema_version"`
	Version       string     `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	TrainingRows  int        `json:"training_rows"`
	TestRows      int        `json:"test_rows"`
	WinEval       Evaluation `json:"win_eval"`
	RiskEval      Evaluation `json:"risk_eval"`
}

// FeatureWeight is one feature's share of the win model's importance.
type FeatureWeight struct {
	Name   string  `json:"feature"`
	Weight float64 `json:"importance"`
}

// Artifact bundles everything a prediction needs: the two fitted models,
// the fitted preprocessing pipeline, and the run's manifest. Artifacts are
// immutable once loaded; retraining produces a new one.
type Artifact struct {
	Manifest   Manifest
	WinModel   *gbm.Regressor
	RiskModel  *gbm.Regressor
	Pipeline   *preprocess.Pipeline
	Importance []FeatureWeight
}
