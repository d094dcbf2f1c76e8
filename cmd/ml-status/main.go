// Package main provides the CLI for inspecting model status.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/bidsight/internal/config"
	"github.com/yourusername/bidsight/internal/database"
	"github.com/yourusername/bidsight/internal/ml"
	"github.com/yourusername/bidsight/internal/models"
	"github.com/yourusername/bidsight/internal/repository"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	engine     *ml.Engine
	store      *ml.Store
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "ml-status",
	Short: "Check bid model status",
	Long:  `Displays the trained/error status, accuracy, and last training time of the win and risk models, from the artifact store and the model registry.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		displayStatus()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	return err
}

func setupDependencies() error {
	// Status is a read-only surface; keep the output clean
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	store = ml.NewStore(cfg.ML.ArtifactsDir, logger)
	engine = ml.NewEngine(store, logger)

	return nil
}

func displayStatus() {
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("\nBid Model Status")
	fmt.Println("════════════════")

	// File-backed truth: the artifact store
	for _, status := range engine.Status() {
		fmt.Printf("\n%s\n", status.Name)
		fmt.Printf("  Status:       %s\n", status.Status)
		if status.Accuracy != nil {
			fmt.Printf("  Accuracy:     %.3f\n", *status.Accuracy)
		} else {
			fmt.Printf("  Accuracy:     n/a\n")
		}
		if status.LastTrained != nil {
			fmt.Printf("  Last trained: %s\n", status.LastTrained.Format(time.RFC3339))
		} else {
			fmt.Printf("  Last trained: never\n")
		}
		if status.Version != "" {
			fmt.Printf("  Version:      %s\n", status.Version)
		}
	}

	if at, err := store.LastTrainedAt(); err == nil {
		fmt.Printf("\nArtifacts last written: %s\n", at.Format(time.RFC3339))
	}
	fmt.Printf("Artifacts directory:    %s\n", cfg.ML.ArtifactsDir)

	// Registry view, when rows exist
	fmt.Println("\nModel Registry")
	fmt.Println("──────────────")
	for _, name := range []string{models.ModelNameWin, models.ModelNameRisk} {
		record, err := repos.Model.GetActive(ctx, name)
		if err != nil {
			fmt.Printf("  %-15s no active version\n", name)
			continue
		}
		line := fmt.Sprintf("  %-15s version=%s trained=%s", name, record.Version,
			record.TrainedAt.Format(time.RFC3339))
		if accuracy, ok := record.Accuracy(); ok {
			line += fmt.Sprintf(" accuracy=%.3f", accuracy)
		}
		fmt.Println(line)
	}

	fmt.Println()
}
