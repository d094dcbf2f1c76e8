package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/bidsight/internal/models"
)

// MockBidRepository is a mock implementation of repository.BidRepository
type MockBidRepository struct {
	mock.Mock
}

func (m *MockBidRepository) Create(ctx context.Context, bid *models.Bid) error {
	args := m.Called(ctx, bid)
	return args.Error(0)
}

func (m *MockBidRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Bid, error) {
	args := m.Called(ctx, id)
	if bid := args.Get(0); bid != nil {
		return bid.(*models.Bid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) ListDecided(ctx context.Context) ([]*models.Bid, error) {
	args := m.Called(ctx)
	if bids := args.Get(0); bids != nil {
		return bids.([]*models.Bid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) ListOpen(ctx context.Context) ([]*models.Bid, error) {
	args := m.Called(ctx)
	if bids := args.Get(0); bids != nil {
		return bids.([]*models.Bid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Bid, error) {
	args := m.Called(ctx, customerID)
	if bids := args.Get(0); bids != nil {
		return bids.([]*models.Bid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) CustomerStats(ctx context.Context, customerID uuid.UUID) (models.BidStats, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(models.BidStats), args.Error(1)
}

func (m *MockBidRepository) UpdatePrediction(ctx context.Context, id uuid.UUID, winProbability, riskScore float64, recommendations []string, mlFeatures json.RawMessage) error {
	args := m.Called(ctx, id, winProbability, riskScore, recommendations, mlFeatures)
	return args.Error(0)
}

func (m *MockBidRepository) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	args := m.Called(ctx)
	if overview := args.Get(0); overview != nil {
		return overview.(*models.DashboardOverview), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if counts := args.Get(0); counts != nil {
		return counts.(map[string]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) CountByPriority(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if counts := args.Get(0); counts != nil {
		return counts.(map[string]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	args := m.Called(ctx, limit)
	if top := args.Get(0); top != nil {
		return top.([]models.TopCustomer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBidRepository) UpcomingDeadlines(ctx context.Context, until time.Time, limit int) ([]models.UpcomingDeadline, error) {
	args := m.Called(ctx, until, limit)
	if deadlines := args.Get(0); deadlines != nil {
		return deadlines.([]models.UpcomingDeadline), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCustomerRepository is a mock implementation of repository.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if customer := args.Get(0); customer != nil {
		return customer.(*models.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	args := m.Called(ctx)
	if customers := args.Get(0); customers != nil {
		return customers.([]*models.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCustomerRepository) UpdateRelationshipScore(ctx context.Context, id uuid.UUID, score int) error {
	args := m.Called(ctx, id, score)
	return args.Error(0)
}

// MockModelRepository is a mock implementation of repository.ModelRepository
type MockModelRepository struct {
	mock.Mock
}

func (m *MockModelRepository) Create(ctx context.Context, model *models.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	args := m.Called(ctx, id)
	if record := args.Get(0); record != nil {
		return record.(*models.Model), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockModelRepository) GetLatest(ctx context.Context, name string) (*models.Model, error) {
	args := m.Called(ctx, name)
	if record := args.Get(0); record != nil {
		return record.(*models.Model), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockModelRepository) GetActive(ctx context.Context, name string) (*models.Model, error) {
	args := m.Called(ctx, name)
	if record := args.Get(0); record != nil {
		return record.(*models.Model), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockModelRepository) ListByName(ctx context.Context, name string) ([]*models.Model, error) {
	args := m.Called(ctx, name)
	if records := args.Get(0); records != nil {
		return records.([]*models.Model), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockModelRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Fixtures shared across the service tests.

func testCustomer() *models.Customer {
	return &models.Customer{
		ID:                uuid.New(),
		Name:              "Test Customer",
		Code:              "CUST-TEST",
		CustomerType:      models.CustomerTypeCorporate,
		Industry:          "technology",
		AnnualRevenue:     decimal.NewFromInt(5_000_000),
		RelationshipScore: 50,
		IsActive:          true,
	}
}

func testBid(customerID uuid.UUID, status models.BidStatus, seq int) *models.Bid {
	margin := 15.0
	complexityScore := 0.4
	return &models.Bid{
		ID:              uuid.New(),
		Code:            fmt.Sprintf("BID-%04d", seq),
		Title:           "Test bid",
		Description:     "A service test bid",
		Status:          status,
		Priority:        models.PriorityMedium,
		Complexity:      models.ComplexityModerate,
		BusinessUnit:    "JIS",
		BidLevel:        "B",
		Region:          "EMEA",
		Country:         "DE",
		BidValue:        decimal.NewFromInt(int64(100_000 * (seq + 1))),
		EstimatedCost:   decimal.NewFromInt(int64(80_000 * (seq + 1))),
		ProfitMargin:    &margin,
		Currency:        "EUR",
		CustomerID:      customerID,
		DueDate:         time.Now().Add(30 * 24 * time.Hour),
		ComplexityScore: &complexityScore,
		TeamMemberCount: 2 + seq%5,
		ReviewCycle:     1,
		Requirements:    []string{"delivery plan"},
	}
}

func testStats() models.BidStats {
	return models.BidStats{TotalBids: 10, WonBids: 5, AvgBidValue: 300_000}
}
