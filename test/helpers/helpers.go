// Package helpers provides shared fixtures and utilities for integration
// and end-to-end tests.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
)

// NewTestCustomer builds a customer fixture with sensible defaults.
func NewTestCustomer(name string) *models.Customer {
	return &models.Customer{
		ID:                uuid.New(),
		Name:              name,
		Code:              fmt.Sprintf("CUST-%s", uuid.NewString()[:8]),
		CustomerType:      models.CustomerTypeCorporate,
		Industry:          "technology",
		AnnualRevenue:     decimal.NewFromInt(5_000_000),
		RelationshipScore: 50,
		IsActive:          true,
	}
}

// NewTestBid builds a bid fixture attached to a customer. The status
// determines whether the bid counts as training data (won/lost/approved/
// rejected) or as an open bid.
func NewTestBid(customerID uuid.UUID, status models.BidStatus) *models.Bid {
	margin := 15.0
	complexityScore := 0.4
	return &models.Bid{
		ID:              uuid.New(),
		Code:            fmt.Sprintf("BID-%s", uuid.NewString()[:8]),
		Title:           "Test bid",
		Description:     "A test bid used by the integration suite",
		Status:          status,
		Priority:        models.PriorityMedium,
		Complexity:      models.ComplexityModerate,
		BusinessUnit:    "JIS",
		BidLevel:        "B",
		Region:          "EMEA",
		Country:         "DE",
		BidValue:        decimal.NewFromInt(250_000),
		EstimatedCost:   decimal.NewFromInt(200_000),
		ProfitMargin:    &margin,
		Currency:        "EUR",
		CustomerID:      customerID,
		DueDate:         time.Now().Add(30 * 24 * time.Hour),
		ComplexityScore: &complexityScore,
		TeamMemberCount: 4,
		ReviewCycle:     1,
		Requirements:    []string{"delivery plan", "support SLA"},
	}
}

// SeedDecidedBids inserts a customer plus n decided bids alternating
// between won and lost, enough history for a training run when n >= 10.
func SeedDecidedBids(t *testing.T, ctx context.Context, repos *repository.Repositories, n int) *models.Customer {
	t.Helper()

	customer := NewTestCustomer("Seeded Customer")
	require.NoError(t, repos.Customer.Create(ctx, customer))

	for i := 0; i < n; i++ {
		status := models.BidStatusWon
		if i%2 == 1 {
			status = models.BidStatusLost
		}
		bid := NewTestBid(customer.ID, status)
		// Vary the numbers so the models see more than one point
		bid.BidValue = decimal.NewFromInt(int64(100_000 * (i + 1)))
		bid.TeamMemberCount = 2 + i%5
		require.NoError(t, repos.Bid.Create(ctx, bid))
	}

	return customer
}

// SetupTestRepositories connects to the test database, resets it, and
// returns the repository set. Skips the test when no DSN is configured.
func SetupTestRepositories(t *testing.T) (*database.DB, *repository.Repositories) {
	t.Helper()

	db := database.SetupTestDB(t)
	database.ResetTestDB(t, db)

	repos, err := repository.NewRepositories(db)
	require.NoError(t, err, "failed to create repositories")

	return db, repos
}

// MockGeminiServer creates a mock HTTP server that answers generateContent
// requests with a fixed assessment payload.
func MockGeminiServer(t *testing.T, assessment map[string]interface{}) *httptest.Server {
	t.Helper()

	body, err := json.Marshal(assessment)
	require.NoError(t, err)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"parts": []map[string]interface{}{
							{"text": string(body)},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
}

// WaitForCondition waits for a condition to become true or times out.
func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool, message string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, message)
}

// CreateTestContext creates a context with a timeout for testing.
func CreateTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// GetEnvOrDefault returns environment variable value or a default.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SkipIfShort skips test if running in short mode.
func SkipIfShort(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping test in short mode")
	}
}
