package repository

import (
	"testing"
)

const skipIntegrationMsg = "Integration test - requires database setup"

// TestCustomerRepositoryCreate tests customer creation
func TestCustomerRepositoryCreate(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// customer := &models.Customer{
	// 	ID:                uuid.New(),
	// 	Name:              "Acme Industrial",
	// 	Code:              "ACME-001",
	// 	CustomerType:      models.CustomerTypeCorporate,
	// 	Industry:          "manufacturing",
	// 	RelationshipScore: 50,
	// 	IsActive:          true,
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// err = repos.Customer.Create(ctx, customer)
	// if err != nil {
	// 	t.Fatalf("failed to create customer: %v", err)
	// }

	// retrieved, err := repos.Customer.GetByID(ctx, customer.ID)
	// if err != nil {
	// 	t.Fatalf("failed to retrieve customer: %v", err)
	// }

	// if retrieved.ID != customer.ID {
	// 	t.Errorf("expected customer ID %v, got %v", customer.ID, retrieved.ID)
	// }
	t.Skip(skipIntegrationMsg)
}

// TestBidRepositoryLifecycle tests bid creation and the decided/open splits
func TestBidRepositoryLifecycle(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// defer cancel()

	// customerID := uuid.New()

	// bid := &models.Bid{
	// 	ID:           uuid.New(),
	// 	Code:         "BID-0001",
	// 	Title:        "Plant upgrade",
	// 	Status:       models.BidStatusWon,
	// 	Priority:     models.PriorityMedium,
	// 	CustomerID:   customerID,
	// 	BusinessUnit: "JIS",
	// 	Region:       "EMEA",
	// 	DueDate:      time.Now().Add(30 * 24 * time.Hour),
	// }

	// err = repos.Bid.Create(ctx, bid)
	// if err != nil {
	// 	t.Fatalf("failed to create bid: %v", err)
	// }

	// decided, err := repos.Bid.ListDecided(ctx)
	// if err != nil {
	// 	t.Fatalf("failed to list decided bids: %v", err)
	// }

	// if len(decided) != 1 {
	// 	t.Errorf("expected 1 decided bid, got %d", len(decided))
	// }
	t.Skip(skipIntegrationMsg)
}

// TestBidRepositoryPredictionWriteback tests the prediction update path
func TestBidRepositoryPredictionWriteback(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// // Writes win probability, risk score, recommendations, and the
	// // feature snapshot in one statement
	// bidID := uuid.New()
	// features := json.RawMessage(`{"bid_value":250000}`)
	// err = repos.Bid.UpdatePrediction(ctx, bidID, 62.5, 30.0, []string{"note"}, features)

	// // Unknown bids must surface models.ErrNotFound
	// if !errors.Is(err, models.ErrNotFound) {
	// 	t.Errorf("expected ErrNotFound, got %v", err)
	// }
	t.Skip(skipIntegrationMsg)
}

// TestModelRepositoryActivation tests the single-active-version invariant
func TestModelRepositoryActivation(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// first := &models.Model{
	// 	ID:        uuid.New(),
	// 	Name:      models.ModelNameWin,
	// 	Version:   "v20240101120000",
	// 	ModelType: models.ModelTypeGradientBoosting,
	// 	Path:      "/var/lib/bidsight/models/v20240101120000",
	// 	TrainedAt: time.Now(),
	// }

	// if err := repos.Model.Create(ctx, first); err != nil {
	// 	t.Fatalf("failed to create model record: %v", err)
	// }

	// if err := repos.Model.SetActive(ctx, first.ID); err != nil {
	// 	t.Fatalf("failed to activate model: %v", err)
	// }

	// // Activating a second version must deactivate the first inside
	// // one transaction
	// active, err := repos.Model.GetActive(ctx, models.ModelNameWin)
	// if err != nil {
	// 	t.Fatalf("failed to get active model: %v", err)
	// }

	// if active.ID != first.ID {
	// 	t.Errorf("expected active model %v, got %v", first.ID, active.ID)
	// }
	t.Skip(skipIntegrationMsg)
}
