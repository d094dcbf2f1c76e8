// Package service orchestrates the bid prediction pipeline over the
// repositories: training runs, prediction serving, and portfolio analytics.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/gbm"
	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
)

// TrainingService assembles the training set from decided bids and drives
// the engine's training runs, recording each fitted model in the registry.
type TrainingService struct {
	engine       *ml.Engine
	store        *ml.Store
	extractor    *features.Extractor
	bidRepo      repository.BidRepository
	customerRepo repository.CustomerRepository
	modelRepo    repository.ModelRepository
	keepVersions int
	mlLog        *logger.MLLogger
	auditLog     *logger.AuditLogger
	logger       *logrus.Logger
}

// NewTrainingService creates a new training service
func NewTrainingService(
	engine *ml.Engine,
	store *ml.Store,
	extractor *features.Extractor,
	bidRepo repository.BidRepository,
	customerRepo repository.CustomerRepository,
	modelRepo repository.ModelRepository,
	keepVersions int,
	log *logrus.Logger,
) *TrainingService {
	return &TrainingService{
		engine:       engine,
		store:        store,
		extractor:    extractor,
		bidRepo:      bidRepo,
		customerRepo: customerRepo,
		modelRepo:    modelRepo,
		keepVersions: keepVersions,
		mlLog:        logger.NewMLLogger(log),
		auditLog:     logger.NewAuditLogger(log),
		logger:       log,
	}
}

// TrainModels runs one full training pass: load decided bids, extract
// features, fit and persist the models, then register and activate the new
// versions. When force is false and a trained artifact set already exists,
// the run is a load-only no-op and the registry is left untouched.
func (s *TrainingService) TrainModels(ctx context.Context, force bool) (*ml.TrainingResult, error) {
	previousVersion := s.engine.Version()

	bids, err := s.bidRepo.ListDecided(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load decided bids: %w", err)
	}

	set, skipped := s.buildTrainingSet(ctx, bids)
	if skipped > 0 {
		s.logger.WithFields(logrus.Fields{
			"skipped": skipped,
			"usable":  len(set.Vectors),
		}).Warn("Some decided bids were excluded from the training set")
	}

	start := time.Now()
	result, err := s.engine.Train(ctx, set, force)
	if err != nil {
		return nil, err
	}

	if result.Skipped {
		s.mlLog.LogTrainingSkipped(result.Version)
		return result, nil
	}

	s.mlLog.LogModelTraining(result.Version, time.Since(start).Seconds(), result.Rows, evalMetrics(result.WinEval))

	if err := s.registerModels(ctx, result); err != nil {
		// The artifact set is already persisted and active in the engine;
		// a registry failure degrades reporting, not predictions.
		s.logger.WithError(err).Error("Failed to register trained models")
	}

	s.auditLog.LogModelActivation(result.Version, previousVersion, result.Rows)

	if removed, err := s.store.Prune(s.keepVersions); err != nil {
		s.logger.WithError(err).Warn("Failed to prune old artifact versions")
	} else if removed > 0 {
		s.auditLog.LogArtifactPrune(removed, s.keepVersions)
	}

	return result, nil
}

// buildTrainingSet extracts one vector per decided bid. Bids whose customer
// or feature extraction fails are skipped whole, never half-extracted.
func (s *TrainingService) buildTrainingSet(ctx context.Context, bids []*models.Bid) (ml.TrainingSet, int) {
	set := ml.TrainingSet{
		Vectors: make([]features.Vector, 0, len(bids)),
		Labels:  make([]float64, 0, len(bids)),
	}

	customers := make(map[uuid.UUID]*models.Customer)
	history := make(map[uuid.UUID]models.BidStats)
	skipped := 0

	for _, bid := range bids {
		customer, ok := customers[bid.CustomerID]
		if !ok {
			var err error
			customer, err = s.customerRepo.GetByID(ctx, bid.CustomerID)
			if err != nil {
				s.logger.WithError(err).WithField("bid_code", bid.Code).Warn("Skipping bid without customer")
				skipped++
				continue
			}
			customers[bid.CustomerID] = customer
		}

		stats, ok := history[bid.CustomerID]
		if !ok {
			var err error
			stats, err = s.bidRepo.CustomerStats(ctx, bid.CustomerID)
			if err != nil {
				s.logger.WithError(err).WithField("bid_code", bid.Code).Warn("Skipping bid without customer history")
				skipped++
				continue
			}
			history[bid.CustomerID] = stats
		}

		vec, err := s.extractor.Extract(bid, customer, stats)
		if err != nil {
			skipped++
			continue
		}

		set.Vectors = append(set.Vectors, vec)
		set.Labels = append(set.Labels, bid.TrainingLabel())
	}

	return set, skipped
}

// registerModels records the win and risk models from one training run in
// the registry and activates them.
func (s *TrainingService) registerModels(ctx context.Context, result *ml.TrainingResult) error {
	hyperparameters, err := json.Marshal(gbm.DefaultParams())
	if err != nil {
		return fmt.Errorf("failed to encode hyperparameters: %w", err)
	}

	path := s.store.VersionDir(result.Version)
	records := []struct {
		name string
		eval ml.Evaluation
	}{
		{name: models.ModelNameWin, eval: result.WinEval},
		{name: models.ModelNameRisk, eval: result.RiskEval},
	}

	for _, r := range records {
		metrics, err := json.Marshal(evalMetrics(r.eval))
		if err != nil {
			return fmt.Errorf("failed to encode metrics: %w", err)
		}

		record := &models.Model{
			ID:              uuid.New(),
			Name:            r.name,
			Version:         result.Version,
			ModelType:       models.ModelTypeGradientBoosting,
			Path:            path,
			Metrics:         metrics,
			Hyperparameters: hyperparameters,
			TrainedAt:       time.Now().UTC(),
		}

		if err := s.modelRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create registry row for %s: %w", r.name, err)
		}
		if err := s.modelRepo.SetActive(ctx, record.ID); err != nil {
			return fmt.Errorf("failed to activate %s %s: %w", r.name, record.Version, err)
		}
	}

	return nil
}

// evalMetrics flattens an evaluation for logs and registry rows. Runs whose
// test split held a single class record no classification metrics.
func evalMetrics(eval ml.Evaluation) map[string]float64 {
	if !eval.Evaluable {
		return map[string]float64{}
	}
	return map[string]float64{
		"accuracy":  eval.Accuracy,
		"precision": eval.Precision,
		"recall":    eval.Recall,
		"f1":        eval.F1,
	}
}
