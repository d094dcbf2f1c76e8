package ml

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/models"
)

// trainedConfidence is reported for predictions served by fitted models.
// Fallback predictions carry the lower default confidence instead.
const trainedConfidence = 0.8

// Predict scores one feature vector with the active models. Any failure,
// including the absence of trained models, degrades to the default
// prediction so callers always get a usable result.
func (e *Engine) Predict(ctx context.Context, vec features.Vector) *models.Prediction {
	start := time.Now()

	artifact, err := e.Current()
	if err != nil {
		e.logger.WithError(err).Warn("No usable models, serving default prediction")
		MLPredictionsTotal.WithLabelValues("default").Inc()
		return models.DefaultPrediction()
	}

	row, err := artifact.Pipeline.TransformRow(vec)
	if err != nil {
		e.logger.WithError(err).Warn("Failed to preprocess features, serving default prediction")
		MLPredictionsTotal.WithLabelValues("default").Inc()
		return models.DefaultPrediction()
	}

	win, err := artifact.WinModel.Predict(row)
	if err != nil {
		e.logger.WithError(err).Warn("Win model failed, serving default prediction")
		MLPredictionsTotal.WithLabelValues("default").Inc()
		return models.DefaultPrediction()
	}
	risk, err := artifact.RiskModel.Predict(row)
	if err != nil {
		e.logger.WithError(err).Warn("Risk model failed, serving default prediction")
		MLPredictionsTotal.WithLabelValues("default").Inc()
		return models.DefaultPrediction()
	}

	raw, err := vec.JSON()
	if err != nil {
		raw = json.RawMessage("{}")
	}

	MLPredictionsTotal.WithLabelValues("engine").Inc()
	MLPredictionLatency.Observe(time.Since(start).Seconds())

	return &models.Prediction{
		WinProbability: clamp01(win),
		RiskScore:      clamp01(risk),
		Confidence:     trainedConfidence,
		Features:       raw,
		PredictedAt:    time.Now(),
	}
}
