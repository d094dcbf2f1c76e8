//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/service"
	"github.com/yourusername/bidsight/test/helpers"
)

// TestPipelineFlow runs the full train → refresh → analytics pipeline
// against a real database and a temp-dir artifact store.
func TestPipelineFlow(t *testing.T) {
	helpers.SkipIfShort(t)

	ctx := helpers.CreateTestContext(t, 2*time.Minute)
	db, repos := helpers.SetupTestRepositories(t)
	defer database.TeardownTestDB(t, db)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	store := ml.NewStore(t.TempDir(), log)
	engine := ml.NewEngine(store, log)
	extractor := features.NewExtractor(log)

	training := service.NewTrainingService(
		engine, store, extractor, repos.Bid, repos.Customer, repos.Model, 3, log)

	// Seed history and an open bid to refresh
	customer := helpers.SeedDecidedBids(t, ctx, repos, 20)
	open := helpers.NewTestBid(customer.ID, models.BidStatusUnderReview)
	require.NoError(t, repos.Bid.Create(ctx, open))

	result, err := training.TrainModels(ctx, true)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 20, result.Rows)

	// Both models registered and active
	for _, name := range []string{models.ModelNameWin, models.ModelNameRisk} {
		record, err := repos.Model.GetActive(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, result.Version, record.Version)
	}

	// A second run without force is load-only: same version, no new rows
	again, err := training.TrainModels(ctx, false)
	require.NoError(t, err)
	assert.True(t, again.Skipped)
	assert.Equal(t, result.Version, again.Version)

	versions, err := repos.Model.ListByName(ctx, models.ModelNameWin)
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	// Refresh writes predictions onto the open bid
	cache := ml.NewPredictionCache(time.Minute, 100)
	predictions := service.NewPredictionService(
		engine, extractor, nil, cache, repos.Bid, repos.Customer, false, log)

	updated, err := predictions.RefreshOpenBids(ctx)
	require.NoError(t, err)
	assert.Greater(t, updated, 0)

	refreshed, err := repos.Bid.GetByID(ctx, open.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.WinProbability)
	assert.GreaterOrEqual(t, *refreshed.WinProbability, 0.0)
	assert.LessOrEqual(t, *refreshed.WinProbability, 100.0)
	require.NotNil(t, refreshed.RiskScore)
	assert.NotEmpty(t, refreshed.MLFeatures)

	// Analytics aligns the relationship score with the 50% win rate
	analytics := service.NewAnalyticsService(repos.Bid, repos.Customer, log)
	changed, err := analytics.UpdateCustomerAnalytics(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, changed, 0)

	updatedCustomer, err := repos.Customer.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	stats, err := repos.Bid.CustomerStats(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int(stats.WinRatePercent()), updatedCustomer.RelationshipScore)

	summary, err := analytics.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Greater(t, summary.Overview.TotalBids, 0)
	assert.NotEmpty(t, summary.Distributions.Status)
}

// TestTrainingInsufficientData verifies the guard leaves the registry and
// store untouched when too few decided bids exist.
func TestTrainingInsufficientData(t *testing.T) {
	helpers.SkipIfShort(t)

	ctx := helpers.CreateTestContext(t, time.Minute)
	db, repos := helpers.SetupTestRepositories(t)
	defer database.TeardownTestDB(t, db)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	store := ml.NewStore(t.TempDir(), log)
	engine := ml.NewEngine(store, log)
	training := service.NewTrainingService(
		engine, store, features.NewExtractor(log), repos.Bid, repos.Customer, repos.Model, 3, log)

	helpers.SeedDecidedBids(t, ctx, repos, 5)

	_, err := training.TrainModels(ctx, true)
	require.ErrorIs(t, err, ml.ErrInsufficientData)

	_, err = store.CurrentVersion()
	assert.ErrorIs(t, err, ml.ErrArtifactMissing)

	_, err = repos.Model.GetLatest(ctx, models.ModelNameWin)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// TestCachingBehavior verifies on-demand predictions hit the cache on the
// second request for the same bid and model version.
func TestCachingBehavior(t *testing.T) {
	helpers.SkipIfShort(t)

	ctx := helpers.CreateTestContext(t, 2*time.Minute)
	db, repos := helpers.SetupTestRepositories(t)
	defer database.TeardownTestDB(t, db)

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	store := ml.NewStore(t.TempDir(), log)
	engine := ml.NewEngine(store, log)
	extractor := features.NewExtractor(log)
	training := service.NewTrainingService(
		engine, store, extractor, repos.Bid, repos.Customer, repos.Model, 3, log)

	customer := helpers.SeedDecidedBids(t, ctx, repos, 12)
	bid := helpers.NewTestBid(customer.ID, models.BidStatusSubmitted)
	require.NoError(t, repos.Bid.Create(ctx, bid))

	_, err := training.TrainModels(ctx, true)
	require.NoError(t, err)

	cache := ml.NewPredictionCache(time.Minute, 100)
	predictions := service.NewPredictionService(
		engine, extractor, nil, cache, repos.Bid, repos.Customer, false, log)

	first, _, err := predictions.PredictBid(ctx, bid.ID)
	require.NoError(t, err)

	second, _, err := predictions.PredictBid(ctx, bid.ID)
	require.NoError(t, err)
	assert.Equal(t, first.WinProbability, second.WinProbability)

	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}
