// Package main provides the CLI for one-off model training runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bidsight/internal/config"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/logger"
	"github.com/yourusername/bidsight/internal/ml"
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
	retrain    bool
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	training   *service.TrainingService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().BoolVar(&retrain, "retrain", false, "Force a refit even when trained models already exist")
}

var rootCmd = &cobra.Command{
	Use:   "ml-train",
	Short: "Train the bid outcome models",
	Long:  `Fits the win and risk models on all decided bids and persists a new artifact version. Without --retrain, an existing artifact set is loaded and left as is.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraining()
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

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store := ml.NewStore(cfg.ML.ArtifactsDir, appLog)
	engine := ml.NewEngine(store, appLog)
	extractor := features.NewExtractor(appLog)
	training = service.NewTrainingService(
		engine, store, extractor, repos.Bid, repos.Customer, repos.Model,
		cfg.ML.KeepVersions, appLog,
	)

	return nil
}

func runTraining() error {
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	result, err := training.TrainModels(ctx, retrain)
	if errors.Is(err, ml.ErrInsufficientData) {
		fmt.Printf("Not enough decided bids to train on (need %d). Existing models are untouched.\n", ml.MinTrainingRows)
		return nil
	}
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *ml.TrainingResult) {
	if result.Skipped {
		fmt.Printf("Models already trained (version %s); skipped. Use --retrain to force a refit.\n", result.Version)
		return
	}

	fmt.Println("\nTraining complete")
	fmt.Println("─────────────────")
	fmt.Printf("Version:       %s\n", result.Version)
	fmt.Printf("Training rows: %d\n", result.Rows)
	fmt.Printf("Test rows:     %d\n", result.TestRows)
	fmt.Printf("Duration:      %s\n", result.Duration.Round(time.Millisecond))

	if result.WinEval.Evaluable {
		fmt.Printf("\nWin model:  accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f\n",
			result.WinEval.Accuracy, result.WinEval.Precision, result.WinEval.Recall, result.WinEval.F1)
	} else {
		fmt.Println("\nWin model:  test split held a single class; metrics skipped")
	}
	if result.RiskEval.Evaluable {
		fmt.Printf("Risk model: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f\n",
			result.RiskEval.Accuracy, result.RiskEval.Precision, result.RiskEval.Recall, result.RiskEval.F1)
	}

	if len(result.Importance) > 0 {
		fmt.Println("\nTop features:")
		limit := 5
		if len(result.Importance) < limit {
			limit = len(result.Importance)
		}
		for _, fw := range result.Importance[:limit] {
			fmt.Printf("  %-30s %.4f\n", fw.Name, fw.Weight)
		}
	}
}
