package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bidsight/internal/models"
)

func TestDashboardSummary(t *testing.T) {
	bidRepo := new(MockBidRepository)
	customerRepo := new(MockCustomerRepository)

	overview := &models.DashboardOverview{
		TotalBids:         42,
		ActiveBids:        10,
		AvgWinProbability: 61.5,
	}
	statusCounts := map[string]int{"won": 20, "lost": 12, "under_review": 10}
	priorityCounts := map[string]int{"medium": 30, "high": 12}
	top := []models.TopCustomer{{Name: "Acme", TotalValue: decimal.NewFromInt(1_000_000), BidCount: 7}}
	deadlines := []models.UpcomingDeadline{{Code: "BID-0001", Title: "Plant upgrade"}}

	bidRepo.On("Overview", mock.Anything).Return(overview, nil)
	bidRepo.On("CountByStatus", mock.Anything).Return(statusCounts, nil)
	bidRepo.On("CountByPriority", mock.Anything).Return(priorityCounts, nil)
	bidRepo.On("TopCustomers", mock.Anything, 5).Return(top, nil)
	bidRepo.On("UpcomingDeadlines", mock.Anything, mock.AnythingOfType("time.Time"), 10).Return(deadlines, nil)

	svc := NewAnalyticsService(bidRepo, customerRepo, quietLogger())

	summary, err := svc.DashboardSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, summary.Overview.TotalBids)
	assert.Equal(t, statusCounts, summary.Distributions.Status)
	assert.Equal(t, priorityCounts, summary.Distributions.Priority)
	assert.Equal(t, top, summary.Insights.TopCustomers)
	assert.Equal(t, deadlines, summary.Insights.UpcomingDeadlines)
	assert.WithinDuration(t, time.Now(), summary.GeneratedAt, 5*time.Second)
}

func TestDashboardSummaryOverviewError(t *testing.T) {
	bidRepo := new(MockBidRepository)

	bidRepo.On("Overview", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewAnalyticsService(bidRepo, new(MockCustomerRepository), quietLogger())

	_, err := svc.DashboardSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build overview")
}

func TestUpdateCustomerAnalytics(t *testing.T) {
	bidRepo := new(MockBidRepository)
	customerRepo := new(MockCustomerRepository)

	// Three customers: one whose score moves, one with no history, one
	// already at the right score
	moving := testCustomer()
	noHistory := testCustomer()
	settled := testCustomer()
	settled.RelationshipScore = 80

	customerRepo.On("List", mock.Anything).
		Return([]*models.Customer{moving, noHistory, settled}, nil)
	bidRepo.On("CustomerStats", mock.Anything, moving.ID).
		Return(models.BidStats{TotalBids: 10, WonBids: 6}, nil)
	bidRepo.On("CustomerStats", mock.Anything, noHistory.ID).
		Return(models.BidStats{}, nil)
	bidRepo.On("CustomerStats", mock.Anything, settled.ID).
		Return(models.BidStats{TotalBids: 5, WonBids: 4}, nil)
	customerRepo.On("UpdateRelationshipScore", mock.Anything, moving.ID, 60).Return(nil)

	svc := NewAnalyticsService(bidRepo, customerRepo, quietLogger())

	updated, err := svc.UpdateCustomerAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	customerRepo.AssertExpectations(t)
	customerRepo.AssertNumberOfCalls(t, "UpdateRelationshipScore", 1)
}

func TestUpdateCustomerAnalyticsSkipsFailures(t *testing.T) {
	bidRepo := new(MockBidRepository)
	customerRepo := new(MockCustomerRepository)

	broken := testCustomer()
	healthy := testCustomer()

	customerRepo.On("List", mock.Anything).
		Return([]*models.Customer{broken, healthy}, nil)
	bidRepo.On("CustomerStats", mock.Anything, broken.ID).
		Return(models.BidStats{}, errors.New("query timeout"))
	bidRepo.On("CustomerStats", mock.Anything, healthy.ID).
		Return(models.BidStats{TotalBids: 4, WonBids: 1}, nil)
	customerRepo.On("UpdateRelationshipScore", mock.Anything, healthy.ID, 25).Return(nil)

	svc := NewAnalyticsService(bidRepo, customerRepo, quietLogger())

	updated, err := svc.UpdateCustomerAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestUpdateCustomerAnalyticsListError(t *testing.T) {
	customerRepo := new(MockCustomerRepository)
	customerRepo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := NewAnalyticsService(new(MockBidRepository), customerRepo, quietLogger())

	_, err := svc.UpdateCustomerAnalytics(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list customers")
}
