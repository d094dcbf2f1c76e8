package features

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/models"
)

// ErrMissingCustomer indicates a bid arrived without its customer aggregate.
var ErrMissingCustomer = errors.New("bid has no customer record")

// Extractor builds feature vectors from bids and their customer context.
// It is pure given its inputs; customer history aggregates are supplied by
// the caller (the bid repository computes them) so the same store state
// always produces the same vector.
type Extractor struct {
	logger *logrus.Logger
}

// NewExtractor creates a feature extractor
func NewExtractor(logger *logrus.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract produces the schema v1 vector for one bid. The vector is either
// complete or an error is returned; callers skip the bid on error rather
// than training or predicting on partial features.
func (e *Extractor) Extract(bid *models.Bid, customer *models.Customer, history models.BidStats) (Vector, error) {
	if bid == nil {
		return Vector{}, errors.New("nil bid")
	}
	if customer == nil {
		return Vector{}, ErrMissingCustomer
	}

	vec := Vector{
		Numeric: map[string]float64{
			"bid_value":                   bid.BidValue.InexactFloat64(),
			"estimated_cost":              bid.EstimatedCost.InexactFloat64(),
			"profit_margin":               floatOrZero(bid.ProfitMargin),
			"days_until_due":              float64(bid.DaysUntilDue()),
			"complexity_score":            floatOrDefault(bid.ComplexityScore, 0.5),
			"customer_relationship_score": float64(customer.RelationshipScore),
			"customer_annual_revenue":     customer.AnnualRevenue.InexactFloat64(),
			"historical_win_rate":         history.WinRate(),
			"avg_bid_value":               history.AvgBidValue,
			"team_size":                   float64(bid.TeamMemberCount + 1),
			"review_cycle_count":          float64(bid.ReviewCycle),
			"description_length":          float64(len(bid.Description)),
			"requirements_count":          float64(len(bid.Requirements)),
		},
		Categorical: map[string]string{
			"customer_type":     string(customer.CustomerType),
			"customer_industry": customer.IndustryOrUnknown(),
			"business_unit":     bid.BusinessUnit,
			"bid_level":         bid.BidLevel,
			"priority":          string(bid.Priority),
			"complexity":        string(bid.Complexity),
			"region":            bid.Region,
		},
	}

	if err := vec.Validate(); err != nil {
		e.logger.WithError(err).WithField("bid_code", bid.Code).Error("Feature extraction produced an incomplete vector")
		return Vector{}, err
	}

	return vec, nil
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
