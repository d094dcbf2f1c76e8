// Package main provides the entry point for the bid pipeline worker.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/ai"
	"github.com/yourusername/bidsight/internal/config"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/health"
	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/metrics"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/repository"
	"github.com/yourusername/bidsight/internal/scheduler"
	"github.com/yourusername/bidsight/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("BIDSIGHT_CONFIG")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Bidsight worker starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Assemble the pipeline
	store := ml.NewStore(cfg.ML.ArtifactsDir, appLog)
	engine := ml.NewEngine(store, appLog)
	extractor := features.NewExtractor(appLog)
	cache := ml.NewPredictionCache(cfg.PredictionCacheTTL(), cfg.ML.CacheMaxSize)
	advisor := ai.NewAdvisor(&cfg.AI, appLog)
	defer advisor.Close()

	trainingService := service.NewTrainingService(
		engine, store, extractor, repos.Bid, repos.Customer, repos.Model,
		cfg.ML.KeepVersions, appLog,
	)
	predictionService := service.NewPredictionService(
		engine, extractor, advisor, cache, repos.Bid, repos.Customer,
		cfg.Features.AIBlendEnabled, appLog,
	)
	analyticsService := service.NewAnalyticsService(repos.Bid, repos.Customer, appLog)

	// Schedule background jobs per feature flags
	sched := scheduler.NewScheduler(trainingService, predictionService, analyticsService, appLog)
	if cfg.Features.AutoTrainingEnabled {
		if err := sched.ScheduleTraining(cfg.Scheduler.TrainingCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule training job")
		}
	}
	if cfg.Features.PredictionRefreshEnabled {
		if err := sched.SchedulePredictionRefresh(cfg.Scheduler.PredictionRefreshCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule prediction refresh job")
		}
	}
	if cfg.Features.CustomerAnalyticsEnabled {
		if err := sched.ScheduleCustomerAnalytics(cfg.Scheduler.CustomerAnalyticsCron); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule customer analytics job")
		}
	}

	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Error during scheduler shutdown")
		}
	}()

	// Health endpoints
	var healthServer *health.Server
	if cfg.Health.Enabled {
		healthServer = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Port:        strconv.Itoa(cfg.Health.Port),
			Path:        cfg.Health.Path,
			Logger:      appLog,
			DB:          db,
			Models:      engine,
		})
		if err := healthServer.Start(ctx); err != nil {
			appLog.WithError(err).Fatal("Failed to start health server")
		}
		healthServer.SetReady(true)
		defer func() {
			if err := healthServer.Shutdown(); err != nil {
				appLog.WithError(err).Error("Error during health server shutdown")
			}
		}()
	}

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer := &http.Server{
			Addr:              ":" + strconv.Itoa(cfg.Metrics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				appLog.WithError(err).Error("Error during metrics server shutdown")
			}
		}()
		appLog.WithField("port", cfg.Metrics.Port).Info("Metrics endpoint started")
	}

	// Warm the engine so the first prediction does not pay the load cost.
	// A missing artifact set is expected on a fresh deployment.
	if _, err := engine.Current(); err != nil {
		appLog.WithError(err).Warn("No trained models yet; predictions fall back to defaults until a training run completes")
	}

	appLog.WithFields(logrus.Fields{
		"auto_training":      cfg.Features.AutoTrainingEnabled,
		"prediction_refresh": cfg.Features.PredictionRefreshEnabled,
		"customer_analytics": cfg.Features.CustomerAnalyticsEnabled,
		"ai_blend":           cfg.Features.AIBlendEnabled,
		"next_run":           sched.GetNextRun(),
	}).Info("Worker is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	cancel()

	appLog.Info("Bidsight worker shut down")
}
