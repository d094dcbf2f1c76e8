// Package main provides the CLI for scoring a single bid.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bidsight/internal/ai"
	"github.com/yourusername/bidsight/internal/config"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
	"github.com/yourusername/bidsight/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	persist    bool
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	engine     *ml.Engine
	extractor  *features.Extractor
	advisor    *ai.Advisor
	cache      *ml.PredictionCache
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&persist, "store", false, "Persist the prediction onto the bid record")
}

var rootCmd = &cobra.Command{
	Use:   "bid-predict <bid-id>",
	Short: "Score one bid",
	Long:  `Runs the prediction pipeline for a single bid and prints the win probability, risk score, and recommendations.`,
	Args:  cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		bidID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid bid ID %q: %w", args[0], err)
		}
		return predict(bidID)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store := ml.NewStore(cfg.ML.ArtifactsDir, appLog)
	engine = ml.NewEngine(store, appLog)
	extractor = features.NewExtractor(appLog)
	advisor = ai.NewAdvisor(&cfg.AI, appLog)
	cache = ml.NewPredictionCache(cfg.PredictionCacheTTL(), cfg.ML.CacheMaxSize)

	return nil
}

func predict(bidID uuid.UUID) error {
	defer db.Close()
	defer advisor.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	bid, err := repos.Bid.GetByID(ctx, bidID)
	if err != nil {
		return fmt.Errorf("failed to load bid: %w", err)
	}

	var pred *models.Prediction
	var recs []string
	if persist {
		svc := service.NewPredictionService(
			engine, extractor, advisor, cache, repos.Bid, repos.Customer,
			cfg.Features.AIBlendEnabled, appLog,
		)
		pred, recs, err = svc.PredictBid(ctx, bidID)
		if err != nil {
			return err
		}
	} else {
		pred = scoreOnly(ctx, bid)
		recs = ml.RecommendForPrediction(pred)
	}

	printPrediction(bid, pred, recs)
	return nil
}

// scoreOnly runs the pipeline without touching the bid record.
func scoreOnly(ctx context.Context, bid *models.Bid) *models.Prediction {
	customer, err := repos.Customer.GetByID(ctx, bid.CustomerID)
	if err != nil {
		return models.DefaultPrediction()
	}
	stats, err := repos.Bid.CustomerStats(ctx, bid.CustomerID)
	if err != nil {
		return models.DefaultPrediction()
	}
	vec, err := extractor.Extract(bid, customer, stats)
	if err != nil {
		return models.DefaultPrediction()
	}
	return engine.Predict(ctx, vec)
}

func printPrediction(bid *models.Bid, pred *models.Prediction, recs []string) {
	fmt.Printf("\nBid %s — %s\n", bid.Code, bid.Title)
	fmt.Println("───────────────────────────────")
	fmt.Printf("Win probability: %.1f%%\n", pred.WinProbability*100)
	fmt.Printf("Risk score:      %.1f%%\n", pred.RiskScore*100)
	fmt.Printf("Confidence:      %.2f\n", pred.Confidence)
	fmt.Printf("Predicted at:    %s\n", pred.PredictedAt.Format(time.RFC3339))
	if pred.IsDefault() {
		fmt.Println("(default prediction: no usable trained models for this bid)")
	}

	if len(recs) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range recs {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if len(pred.Features) > 2 {
		var pretty map[string]interface{}
		if err := json.Unmarshal(pred.Features, &pretty); err == nil {
			fmt.Printf("\nFeatures used: %d\n", len(pretty))
		}
	}

	if persist {
		fmt.Println("\nPrediction stored on the bid record.")
	}
}
