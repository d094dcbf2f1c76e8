package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the bid portfolio for reporting
type DashboardSummary struct {
	Overview      DashboardOverview  `json:"overview"`
	Distributions DashboardBreakdown `json:"distributions"`
	Insights      DashboardInsights  `json:"insights"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// DashboardOverview holds the headline portfolio numbers
type DashboardOverview struct {
	TotalBids         int             `json:"total_bids"`
	ActiveBids        int             `json:"active_bids"`
	UrgentBids        int             `json:"urgent_bids"`
	OverdueBids       int             `json:"overdue_bids"`
	TotalValue        decimal.Decimal `json:"total_value"`
	AvgWinProbability float64         `json:"avg_win_probability"` // percent, over scored bids
}

// DashboardBreakdown holds count distributions across classifications
type DashboardBreakdown struct {
	Status   map[string]int `json:"status"`
	Priority map[string]int `json:"priority"`
}

// DashboardInsights holds derived highlights
type DashboardInsights struct {
	TopCustomers      []TopCustomer      `json:"top_customers"`
	UpcomingDeadlines []UpcomingDeadline `json:"upcoming_deadlines"`
}

// TopCustomer ranks a customer by total bid value
type TopCustomer struct {
	Name       string          `db:"name" json:"name"`
	TotalValue decimal.Decimal `db:"total_value" json:"total_value"`
	BidCount   int             `db:"bid_count" json:"bid_count"`
}

// UpcomingDeadline is a bid due within the reporting horizon
type UpcomingDeadline struct {
	Code     string    `db:"code" json:"code"`
	Title    string    `db:"title" json:"title"`
	DueDate  time.Time `db:"due_date" json:"due_date"`
	Priority Priority  `db:"priority" json:"priority"`
}
