package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/ai"
	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/metrics"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
)

// AI advisor blend weights for on-demand predictions. The background
// refresh stays pure ML.
const (
	blendMLWeight = 0.6
	blendAIWeight = 0.4
)

// PredictionService scores bids with the engine and writes the results
// back onto the bid records. On-demand predictions go through the cache
// and, when enabled, blend in the AI advisor's assessment.
type PredictionService struct {
	engine         *ml.Engine
	extractor      *features.Extractor
	advisor        *ai.Advisor
	cache          *ml.PredictionCache
	bidRepo        repository.BidRepository
	customerRepo   repository.CustomerRepository
	aiBlendEnabled bool
	mlLog          *logger.MLLogger
	auditLog       *logger.AuditLogger
	logger         *logrus.Logger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(
	engine *ml.Engine,
	extractor *features.Extractor,
	advisor *ai.Advisor,
	cache *ml.PredictionCache,
	bidRepo repository.BidRepository,
	customerRepo repository.CustomerRepository,
	aiBlendEnabled bool,
	log *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		engine:         engine,
		extractor:      extractor,
		advisor:        advisor,
		cache:          cache,
		bidRepo:        bidRepo,
		customerRepo:   customerRepo,
		aiBlendEnabled: aiBlendEnabled,
		mlLog:          logger.NewMLLogger(log),
		auditLog:       logger.NewAuditLogger(log),
		logger:         log,
	}
}

// PredictBid scores one bid on demand and persists the result. Scoring
// never fails on model problems; those degrade to the default prediction.
// Only missing rows and persistence errors surface to the caller.
func (s *PredictionService) PredictBid(ctx context.Context, bidID uuid.UUID) (*models.Prediction, []string, error) {
	start := time.Now()

	bid, err := s.bidRepo.GetByID(ctx, bidID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load bid: %w", err)
	}

	key := ml.CacheKey{BidID: bidID, ModelVersion: s.engine.Version()}
	if cached := s.cache.Get(ctx, key); cached != nil {
		ml.MLPredictionsTotal.WithLabelValues("cache").Inc()
		s.mlLog.LogMLPredictionRequest(bidID.String(), "cache", float64(time.Since(start).Milliseconds()))
		return cached, ml.RecommendForPrediction(cached), nil
	}

	pred := s.score(ctx, bid)
	blended := s.blend(ctx, pred)

	recs := ml.RecommendForPrediction(pred)
	if err := s.persist(ctx, bid, pred, recs, blended); err != nil {
		return nil, nil, err
	}

	s.cache.Set(ctx, key, pred)
	metrics.RecordBidScored("on_demand")
	s.mlLog.LogMLPredictionRequest(bidID.String(), "engine", float64(time.Since(start).Milliseconds()))

	return pred, recs, nil
}

// RefreshOpenBids rescores every bid still in play. Per-bid failures are
// logged and skipped; the run reports how many bids were updated.
func (s *PredictionService) RefreshOpenBids(ctx context.Context) (int, error) {
	start := time.Now()

	bids, err := s.bidRepo.ListOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open bids: %w", err)
	}

	updated := 0
	for _, bid := range bids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		pred := s.score(ctx, bid)
		recs := ml.RecommendForPrediction(pred)
		if err := s.persist(ctx, bid, pred, recs, false); err != nil {
			s.mlLog.LogMLPredictionError(bid.ID.String(), err.Error())
			continue
		}

		metrics.RecordBidScored("refresh")
		updated++
	}

	duration := time.Since(start)
	metrics.RecordRefreshDuration(duration.Seconds())
	metrics.UpdateOpenBids(float64(len(bids)))

	s.logger.WithFields(logrus.Fields{
		"open_bids": len(bids),
		"updated":   updated,
		"duration":  duration,
	}).Info("Open bid predictions refreshed")

	return updated, nil
}

// score runs the extract→predict path for one bid. Any failure along the
// way yields the default prediction rather than an error.
func (s *PredictionService) score(ctx context.Context, bid *models.Bid) *models.Prediction {
	customer, err := s.customerRepo.GetByID(ctx, bid.CustomerID)
	if err != nil {
		s.logger.WithError(err).WithField("bid_code", bid.Code).Warn("Bid has no customer, serving default prediction")
		return models.DefaultPrediction()
	}

	stats, err := s.bidRepo.CustomerStats(ctx, bid.CustomerID)
	if err != nil {
		s.logger.WithError(err).WithField("bid_code", bid.Code).Warn("Customer history unavailable, serving default prediction")
		return models.DefaultPrediction()
	}

	vec, err := s.extractor.Extract(bid, customer, stats)
	if err != nil {
		return models.DefaultPrediction()
	}

	return s.engine.Predict(ctx, vec)
}

// blend folds the AI advisor's win assessment into an on-demand
// prediction. Default predictions are never blended; there is nothing
// real to weight. Reports whether blending happened.
func (s *PredictionService) blend(ctx context.Context, pred *models.Prediction) bool {
	if !s.aiBlendEnabled || s.advisor == nil || !s.advisor.Enabled() || pred.IsDefault() {
		return false
	}

	assessment := s.advisor.AssessWin(ctx, string(pred.Features))
	pred.WinProbability = blendMLWeight*pred.WinProbability + blendAIWeight*assessment.WinProbability
	metrics.RecordAIBlend()
	return true
}

// persist writes the prediction back onto the bid record, scaling the
// probabilities to the 0-100 percentages the record stores.
func (s *PredictionService) persist(ctx context.Context, bid *models.Bid, pred *models.Prediction, recs []string, blended bool) error {
	err := s.bidRepo.UpdatePrediction(ctx, bid.ID,
		pred.WinProbability*100, pred.RiskScore*100, recs, pred.Features)
	if err != nil {
		return fmt.Errorf("failed to persist prediction: %w", err)
	}

	metrics.RecordPredictionWriteback()
	metrics.RecordRecommendations(len(recs))
	s.auditLog.LogPredictionUpdate(bid.ID.String(), s.engine.Version(),
		pred.WinProbability, pred.RiskScore, blended)
	return nil
}
