package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/metrics"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
)

const (
	deadlineHorizon  = 7 * 24 * time.Hour
	topCustomerCount = 5
	deadlineLimit    = 10
)

// AnalyticsService builds portfolio aggregates for reporting and keeps
// customer relationship scores aligned with bid outcomes.
type AnalyticsService struct {
	bidRepo      repository.BidRepository
	customerRepo repository.CustomerRepository
	auditLog     *logger.AuditLogger
	logger       *logrus.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	bidRepo repository.BidRepository,
	customerRepo repository.CustomerRepository,
	log *logrus.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		bidRepo:      bidRepo,
		customerRepo: customerRepo,
		auditLog:     logger.NewAuditLogger(log),
		logger:       log,
	}
}

// DashboardSummary assembles the portfolio overview: headline numbers,
// status and priority distributions, top customers by value, and bids due
// within the next week.
func (s *AnalyticsService) DashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	start := time.Now()

	overview, err := s.bidRepo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build overview: %w", err)
	}

	statusCounts, err := s.bidRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bids by status: %w", err)
	}

	priorityCounts, err := s.bidRepo.CountByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count bids by priority: %w", err)
	}

	topCustomers, err := s.bidRepo.TopCustomers(ctx, topCustomerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to rank customers: %w", err)
	}

	deadlines, err := s.bidRepo.UpcomingDeadlines(ctx, time.Now().Add(deadlineHorizon), deadlineLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming deadlines: %w", err)
	}

	metrics.UpdateOpenBids(float64(overview.ActiveBids))
	metrics.UpdateDecidedBids(float64(overview.TotalBids - overview.ActiveBids))
	metrics.UpdateAvgWinProbability(overview.AvgWinProbability)
	metrics.RecordDashboardBuild(time.Since(start).Seconds())

	return &models.DashboardSummary{
		Overview: *overview,
		Distributions: models.DashboardBreakdown{
			Status:   statusCounts,
			Priority: priorityCounts,
		},
		Insights: models.DashboardInsights{
			TopCustomers:      topCustomers,
			UpcomingDeadlines: deadlines,
		},
		GeneratedAt: time.Now(),
	}, nil
}

// UpdateCustomerAnalytics recomputes each customer's relationship score
// from their bid outcomes: the score becomes the win rate percentage,
// truncated. Customers without bid history keep their current score.
// Reports how many customers changed.
func (s *AnalyticsService) UpdateCustomerAnalytics(ctx context.Context) (int, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list customers: %w", err)
	}

	updated := 0
	for _, customer := range customers {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		stats, err := s.bidRepo.CustomerStats(ctx, customer.ID)
		if err != nil {
			s.logger.WithError(err).WithField("customer", customer.Code).Warn("Failed to aggregate customer bids, skipping")
			continue
		}
		if stats.TotalBids == 0 {
			continue
		}

		winRatePercent := stats.WinRatePercent()
		score := int(winRatePercent)
		if score == customer.RelationshipScore {
			continue
		}

		if err := s.customerRepo.UpdateRelationshipScore(ctx, customer.ID, score); err != nil {
			s.logger.WithError(err).WithField("customer", customer.Code).Warn("Failed to update relationship score, skipping")
			continue
		}

		s.auditLog.LogRelationshipScoreChange(customer.ID.String(), customer.RelationshipScore, score, winRatePercent)
		metrics.RecordRelationshipScoreUpdate()
		updated++
	}

	s.logger.WithFields(logrus.Fields{
		"customers": len(customers),
		"updated":   updated,
	}).Info("Customer analytics updated")

	return updated, nil
}
