// Package scheduler runs the pipeline's background jobs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/metrics"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/service"
)

// Job names, used in logs and metrics labels.
const (
	JobTraining          = "training"
	JobPredictionRefresh = "prediction_refresh"
	JobCustomerAnalytics = "customer_analytics"
)

const (
	trainingTimeout  = 1 * time.Hour
	refreshTimeout   = 30 * time.Minute
	analyticsTimeout = 15 * time.Minute
)

// Scheduler manages the pipeline's scheduled jobs: model retraining,
// open-bid prediction refresh, and customer analytics. Overlapping runs of
// the same job are skipped via per-job running flags.
type Scheduler struct {
	cron            *cron.Cron
	training        *service.TrainingService
	predictions     *service.PredictionService
	analytics       *service.AnalyticsService
	jobLog          *logger.JobLogger
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	jobActive       map[string]*sync.Mutex
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(
	training *service.TrainingService,
	predictions *service.PredictionService,
	analytics *service.AnalyticsService,
	log *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		training:    training,
		predictions: predictions,
		analytics:   analytics,
		jobLog:      logger.NewJobLogger(log),
		logger:      log,
		jobIDs:      make([]cron.EntryID, 0),
		jobActive: map[string]*sync.Mutex{
			JobTraining:          {},
			JobPredictionRefresh: {},
			JobCustomerAnalytics: {},
		},
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleTraining schedules periodic model retraining. Scheduled runs
// always force a refit; the load-if-exists short-circuit is for startup,
// not for cron.
func (s *Scheduler) ScheduleTraining(cronExpression string) error {
	return s.schedule(JobTraining, cronExpression, trainingTimeout, func(ctx context.Context) (map[string]interface{}, error) {
		result, err := s.training.TrainModels(ctx, true)
		if err != nil {
			if errors.Is(err, ml.ErrInsufficientData) {
				return map[string]interface{}{"outcome": "insufficient data"}, nil
			}
			return nil, err
		}
		return map[string]interface{}{
			"version": result.Version,
			"rows":    result.Rows,
		}, nil
	})
}

// SchedulePredictionRefresh schedules the open-bid rescoring pass.
func (s *Scheduler) SchedulePredictionRefresh(cronExpression string) error {
	return s.schedule(JobPredictionRefresh, cronExpression, refreshTimeout, func(ctx context.Context) (map[string]interface{}, error) {
		updated, err := s.predictions.RefreshOpenBids(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"updated": updated}, nil
	})
}

// ScheduleCustomerAnalytics schedules the relationship score recompute.
func (s *Scheduler) ScheduleCustomerAnalytics(cronExpression string) error {
	return s.schedule(JobCustomerAnalytics, cronExpression, analyticsTimeout, func(ctx context.Context) (map[string]interface{}, error) {
		updated, err := s.analytics.UpdateCustomerAnalytics(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"updated": updated}, nil
	})
}

// schedule registers one job function under a cron expression.
func (s *Scheduler) schedule(jobName, cronExpression string, timeout time.Duration, run func(context.Context) (map[string]interface{}, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	active := s.jobActive[jobName]
	jobFunc := func() {
		if !active.TryLock() {
			s.jobLog.LogJobSkipped(jobName, "previous run still active")
			metrics.RecordJobRun(jobName, "skipped")
			return
		}
		defer active.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		s.jobLog.LogJobStart(jobName)

		details, err := run(ctx)
		duration := time.Since(start)
		metrics.RecordJobDuration(jobName, duration.Seconds())
		if err != nil {
			s.jobLog.LogJobFailure(jobName, err.Error())
			metrics.RecordJobRun(jobName, "failure")
			return
		}

		s.jobLog.LogJobComplete(jobName, float64(duration.Milliseconds()), details)
		metrics.RecordJobRun(jobName, "success")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", jobName, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.jobLog.LogJobScheduled(jobName, cronExpression, s.cron.Entry(entryID).Next)

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for in-flight jobs up to
// the graceful timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
