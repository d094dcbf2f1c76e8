package models

import (
	"encoding/json"
	"time"
)

// Prediction represents the pipeline output for a single bid. It is
// ephemeral: callers fold it into the bid record rather than storing it
// as its own entity.
type Prediction struct {
	WinProbability float64         `json:"win_probability" validate:"gte=0,lte=1"`
	RiskScore      float64         `json:"risk_score" validate:"gte=0,lte=1"`
	Confidence     float64         `json:"confidence" validate:"gte=0,lte=1"`
	Features       json.RawMessage `json:"features"`
	PredictedAt    time.Time       `json:"timestamp"`
}

// DefaultPrediction is the documented fallback returned whenever the
// predict path cannot produce a real result: no usable artifacts, an
// unseen category, or a transform failure.
func DefaultPrediction() *Prediction {
	return &Prediction{
		WinProbability: 0.5,
		RiskScore:      0.5,
		Confidence:     0.5,
		Features:       json.RawMessage("{}"),
		PredictedAt:    time.Now(),
	}
}

// IsDefault reports whether the prediction carries the fallback values
// and an empty feature set.
func (p *Prediction) IsDefault() bool {
	return p.WinProbability == 0.5 && p.RiskScore == 0.5 && p.Confidence == 0.5 &&
		len(p.Features) <= 2
}

// GetFeature retrieves a feature value from the Features JSON
func (p *Prediction) GetFeature(name string) (interface{}, error) {
	if p.Features == nil {
		return nil, nil
	}

	var features map[string]interface{}
	if err := json.Unmarshal(p.Features, &features); err != nil {
		return nil, err
	}

	return features[name], nil
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
