package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidStatus represents the review lifecycle state of a bid
type BidStatus string

const (
	BidStatusDraft            BidStatus = "draft"
	BidStatusSubmitted        BidStatus = "submitted"
	BidStatusUnderReview      BidStatus = "under_review"
	BidStatusTechnicalReview  BidStatus = "technical_review"
	BidStatusCommercialReview BidStatus = "commercial_review"
	BidStatusApproved         BidStatus = "approved"
	BidStatusRejected         BidStatus = "rejected"
	BidStatusWon              BidStatus = "won"
	BidStatusLost             BidStatus = "lost"
	BidStatusCancelled        BidStatus = "cancelled"
)

// Priority represents bid urgency classification
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Complexity represents bid complexity classification
type Complexity string

const (
	ComplexitySimple        Complexity = "simple"
	ComplexityModerate      Complexity = "moderate"
	ComplexityComplex       Complexity = "complex"
	ComplexityHighlyComplex Complexity = "highly_complex"
)

// Bid represents a proposal tracked through review to a won/lost outcome
type Bid struct {
	ID              uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Code            string          `db:"code" json:"code" validate:"required"`
	Title           string          `db:"title" json:"title" validate:"required"`
	Description     string          `db:"description" json:"description"`
	Status          BidStatus       `db:"status" json:"status" validate:"required"`
	Priority        Priority        `db:"priority" json:"priority" validate:"oneof=critical high medium low"`
	Complexity      Complexity      `db:"complexity" json:"complexity" validate:"oneof=simple moderate complex highly_complex"`
	BusinessUnit    string          `db:"business_unit" json:"business_unit" validate:"oneof=JIS JCS"`
	BidLevel        string          `db:"bid_level" json:"bid_level" validate:"oneof=A B C D"`
	Region          string          `db:"region" json:"region" validate:"required"`
	Country         string          `db:"country" json:"country"`
	BidValue        decimal.Decimal `db:"bid_value" json:"bid_value"`
	EstimatedCost   decimal.Decimal `db:"estimated_cost" json:"estimated_cost"`
	ProfitMargin    *float64        `db:"profit_margin" json:"profit_margin"` // percent
	Currency        string          `db:"currency" json:"currency"`
	CustomerID      uuid.UUID       `db:"customer_id" json:"customer_id" validate:"required,uuid4"`
	DueDate         time.Time       `db:"due_date" json:"due_date"`
	SubmissionDate  *time.Time      `db:"submission_date" json:"submission_date"`
	DecisionDate    *time.Time      `db:"decision_date" json:"decision_date"`
	IsUrgent        bool            `db:"is_urgent" json:"is_urgent"`
	ComplexityScore *float64        `db:"complexity_score" json:"complexity_score"`
	TeamMemberCount int             `db:"team_member_count" json:"team_member_count"`
	ReviewCycle     int             `db:"review_cycle" json:"review_cycle"`
	Requirements    []string        `db:"requirements" json:"requirements"`
	WinProbability  *float64        `db:"win_probability" json:"win_probability"` // percent, model output
	RiskScore       *float64        `db:"risk_score" json:"risk_score"`           // percent, model output
	Recommendations []string        `db:"recommendations" json:"recommendations"`
	MLFeatures      json.RawMessage `db:"ml_features" json:"ml_features"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
	ClosedAt        *time.Time      `db:"closed_at" json:"closed_at"`
}

// DaysUntilDue returns whole days from today until the due date.
// Negative when overdue, 0 when no due date is set.
func (b *Bid) DaysUntilDue() int {
	if b.DueDate.IsZero() {
		return 0
	}
	return daysBetween(time.Now(), b.DueDate)
}

// IsOverdue checks if the due date has passed
func (b *Bid) IsOverdue() bool {
	return !b.DueDate.IsZero() && b.DaysUntilDue() < 0
}

// EstimatedProfit returns bid value scaled by the profit margin percentage,
// or zero when either is unset.
func (b *Bid) EstimatedProfit() decimal.Decimal {
	if b.ProfitMargin == nil || b.BidValue.IsZero() {
		return decimal.Zero
	}
	margin := decimal.NewFromFloat(*b.ProfitMargin)
	return b.BidValue.Mul(margin.Div(decimal.NewFromInt(100)))
}

// RequiresAttention flags bids needing immediate action
func (b *Bid) RequiresAttention() bool {
	if b.IsUrgent || b.Priority == PriorityCritical || b.Priority == PriorityHigh {
		return true
	}
	if b.IsOverdue() {
		return true
	}
	return !b.DueDate.IsZero() && b.DaysUntilDue() <= 3
}

// IsDecided checks if the bid reached a terminal decision usable for training
func (b *Bid) IsDecided() bool {
	switch b.Status {
	case BidStatusWon, BidStatusLost, BidStatusApproved, BidStatusRejected:
		return true
	}
	return false
}

// IsOpen checks if the bid is still in play and should receive predictions
func (b *Bid) IsOpen() bool {
	switch b.Status {
	case BidStatusWon, BidStatusLost, BidStatusCancelled:
		return false
	}
	return true
}

// TrainingLabel returns the supervised target: 1 for won/approved, 0 otherwise
func (b *Bid) TrainingLabel() float64 {
	if b.Status == BidStatusWon || b.Status == BidStatusApproved {
		return 1
	}
	return 0
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
