package ml

import (
	"encoding/json"

	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/models"
)

// Recommendation text, grouped by the condition that triggers it.
var (
	lowWinRecommendations = []string{
		"Consider revising bid strategy",
		"Strengthen customer relationship",
		"Review pricing strategy",
		"Enhance technical proposal",
	}
	midWinRecommendations = []string{
		"Focus on key differentiators",
		"Clarify scope and deliverables",
		"Strengthen risk mitigation plan",
		"Review competitive positioning",
	}
	highRiskRecommendations = []string{
		"Implement enhanced risk monitoring",
		"Develop contingency plans",
		"Increase management oversight",
	}
)

const (
	recEngageCustomer   = "Schedule customer engagement meetings"
	recAccelerateReview = "Accelerate review and approval process"
)

// Recommend derives action items from a prediction. Win probability under
// 0.3 triggers the strategy revision set; under 0.6 the positioning set.
// Risk above 0.7 adds the risk controls. Feature-specific items read from
// featureValues, where a missing feature counts as 0. Duplicates collapse
// to their first occurrence.
func Recommend(winProbability, riskScore float64, featureValues map[string]float64) []string {
	var recs []string

	if winProbability < 0.3 {
		recs = append(recs, lowWinRecommendations...)
	} else if winProbability < 0.6 {
		recs = append(recs, midWinRecommendations...)
	}

	if riskScore > 0.7 {
		recs = append(recs, highRiskRecommendations...)
	}

	if featureValues[features.FeatRelationshipScore] < 40 {
		recs = append(recs, recEngageCustomer)
	}
	if featureValues[features.FeatDaysUntilDue] < 14 {
		recs = append(recs, recAccelerateReview)
	}

	return dedupe(recs)
}

// RecommendForPrediction reads the feature values straight off a stored
// prediction. Predictions without features, like the default fallback,
// still produce the feature-conditional items because absent values read
// as 0.
func RecommendForPrediction(pred *models.Prediction) []string {
	values := map[string]float64{}
	if len(pred.Features) > 0 {
		var decoded map[string]interface{}
		if err := json.Unmarshal(pred.Features, &decoded); err == nil {
			for k, v := range decoded {
				if f, ok := v.(float64); ok {
					values[k] = f
				}
			}
		}
	}
	return Recommend(pred.WinProbability, pred.RiskScore, values)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
