package features

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bidsight/internal/models"
)

func testBid() *models.Bid {
	margin := 15.0
	score := 0.6
	return &models.Bid{
		ID:              uuid.New(),
		Code:            "BID-2026-001",
		Title:           "Network refresh",
		Description:     "Replace the core switching fabric",
		Status:          models.BidStatusUnderReview,
		Priority:        models.PriorityHigh,
		Complexity:      models.ComplexityComplex,
		BusinessUnit:    "JIS",
		BidLevel:        "B",
		Region:          "EMEA",
		BidValue:        decimal.NewFromInt(250000),
		EstimatedCost:   decimal.NewFromInt(180000),
		ProfitMargin:    &margin,
		ComplexityScore: &score,
		CustomerID:      uuid.New(),
		DueDate:         time.Now().Add(20 * 24 * time.Hour),
		TeamMemberCount: 4,
		ReviewCycle:     2,
		Requirements:    []string{"fiber backbone", "24x7 support", "on-site spares"},
	}
}

func testCustomer() *models.Customer {
	return &models.Customer{
		ID:                uuid.New(),
		Name:              "Acme Utilities",
		CustomerType:      models.CustomerTypeCorporate,
		Industry:          "energy",
		AnnualRevenue:     decimal.NewFromInt(50000000),
		RelationshipScore: 72,
	}
}

func TestExtractProducesFullSchema(t *testing.T) {
	e := NewExtractor(logrus.New())

	vec, err := e.Extract(testBid(), testCustomer(), models.BidStats{TotalBids: 10, WonBids: 4, AvgBidValue: 220000})
	require.NoError(t, err)
	require.NoError(t, vec.Validate())

	for _, f := range Schema() {
		switch f.Kind {
		case KindNumeric:
			assert.Contains(t, vec.Numeric, f.Name)
		case KindCategorical:
			assert.Contains(t, vec.Categorical, f.Name)
		}
	}

	assert.InDelta(t, 250000, vec.Numeric["bid_value"], 1e-9)
	assert.InDelta(t, 15.0, vec.Numeric["profit_margin"], 1e-9)
	assert.InDelta(t, 0.6, vec.Numeric["complexity_score"], 1e-9)
	assert.InDelta(t, 72, vec.Numeric["customer_relationship_score"], 1e-9)
	assert.InDelta(t, 0.4, vec.Numeric["historical_win_rate"], 1e-9)
	assert.InDelta(t, 5, vec.Numeric["team_size"], 1e-9) // 4 members + owner
	assert.InDelta(t, 2, vec.Numeric["review_cycle_count"], 1e-9)
	assert.InDelta(t, 3, vec.Numeric["requirements_count"], 1e-9)
	assert.InDelta(t, 20, vec.Numeric["days_until_due"], 1.0)
	assert.Equal(t, "corporate", vec.Categorical["customer_type"])
	assert.Equal(t, "energy", vec.Categorical["customer_industry"])
	assert.Equal(t, "JIS", vec.Categorical["business_unit"])
	assert.Equal(t, "high", vec.Categorical["priority"])
}

func TestExtractDefaults(t *testing.T) {
	e := NewExtractor(logrus.New())

	bid := testBid()
	bid.ProfitMargin = nil
	bid.ComplexityScore = nil
	bid.BidValue = decimal.Zero
	bid.DueDate = time.Time{}
	bid.Requirements = nil

	customer := testCustomer()
	customer.Industry = ""
	customer.AnnualRevenue = decimal.Zero

	vec, err := e.Extract(bid, customer, models.BidStats{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, vec.Numeric["bid_value"])
	assert.Equal(t, 0.0, vec.Numeric["profit_margin"])
	assert.Equal(t, 0.5, vec.Numeric["complexity_score"])
	assert.Equal(t, 0.0, vec.Numeric["days_until_due"])
	assert.Equal(t, 0.0, vec.Numeric["requirements_count"])
	assert.Equal(t, 0.0, vec.Numeric["customer_annual_revenue"])
	assert.Equal(t, "unknown", vec.Categorical["customer_industry"])

	// no history: exactly 0.5, never 0
	assert.Equal(t, 0.5, vec.Numeric["historical_win_rate"])
	assert.Equal(t, 0.0, vec.Numeric["avg_bid_value"])
}

func TestExtractDeterministic(t *testing.T) {
	e := NewExtractor(logrus.New())
	bid := testBid()
	customer := testCustomer()
	stats := models.BidStats{TotalBids: 3, WonBids: 1, AvgBidValue: 90000}

	a, err := e.Extract(bid, customer, stats)
	require.NoError(t, err)
	b, err := e.Extract(bid, customer, stats)
	require.NoError(t, err)

	assert.Equal(t, a.Numeric, b.Numeric)
	assert.Equal(t, a.Categorical, b.Categorical)
}

func TestExtractMissingCustomer(t *testing.T) {
	e := NewExtractor(logrus.New())

	_, err := e.Extract(testBid(), nil, models.BidStats{})
	assert.ErrorIs(t, err, ErrMissingCustomer)
}

func TestVectorValidateRejectsPartial(t *testing.T) {
	vec := Vector{
		Numeric:     map[string]float64{"bid_value": 1000},
		Categorical: map[string]string{"region": "APAC"},
	}
	assert.Error(t, vec.Validate())
}

func TestVectorJSONFlattens(t *testing.T) {
	e := NewExtractor(logrus.New())
	vec, err := e.Extract(testBid(), testCustomer(), models.BidStats{TotalBids: 2, WonBids: 2, AvgBidValue: 100})
	require.NoError(t, err)

	raw, err := vec.JSON()
	require.NoError(t, err)

	var flat map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &flat))
	assert.Len(t, flat, len(Schema()))
	assert.Contains(t, flat, "bid_value")
	assert.Contains(t, flat, "region")
}
