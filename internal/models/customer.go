package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerType represents the customer classification
type CustomerType string

const (
	CustomerTypeGovernment CustomerType = "government"
	CustomerTypeCorporate  CustomerType = "corporate"
	CustomerTypeSME        CustomerType = "sme"
	CustomerTypeIndividual CustomerType = "individual"
)

// Customer represents a client organization that bids are submitted to
type Customer struct {
	ID                uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name              string          `db:"name" json:"name" validate:"required"`
	Code              string          `db:"code" json:"code"`
	CustomerType      CustomerType    `db:"customer_type" json:"customer_type" validate:"oneof=government corporate sme individual"`
	Industry          string          `db:"industry" json:"industry"`
	AnnualRevenue     decimal.Decimal `db:"annual_revenue" json:"annual_revenue"`
	RelationshipScore int             `db:"relationship_score" json:"relationship_score" validate:"gte=0,lte=100"`
	IsActive          bool            `db:"is_active" json:"is_active"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// IndustryOrUnknown returns the industry, or "unknown" when not recorded
func (c *Customer) IndustryOrUnknown() string {
	if c.Industry == "" {
		return "unknown"
	}
	return c.Industry
}

// BidStats aggregates a customer's bid history for feature extraction
// and relationship analytics.
type BidStats struct {
	TotalBids   int     `db:"total_bids" json:"total_bids"`
	WonBids     int     `db:"won_bids" json:"won_bids"` // status won or approved
	AvgBidValue float64 `db:"avg_bid_value" json:"avg_bid_value"`
}

// WinRate returns the won/approved fraction of the customer's bids.
// Customers with no history get 0.5 so the model is not biased toward 0.
func (s BidStats) WinRate() float64 {
	if s.TotalBids == 0 {
		return 0.5
	}
	return float64(s.WonBids) / float64(s.TotalBids)
}

// WinRatePercent returns the win rate as a 0-100 percentage, 0 when no history
func (s BidStats) WinRatePercent() float64 {
	if s.TotalBids == 0 {
		return 0
	}
	return float64(s.WonBids) / float64(s.TotalBids) * 100
}
