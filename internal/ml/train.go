package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bidsight/internal/features"
	"github.com/yourusername/bidsight/internal/gbm"
	"github.com/yourusername/bidsight/internal/preprocess"
)

const (
	// MinTrainingRows is the smallest decided-bid count worth fitting on.
	MinTrainingRows = 10

	testFraction  = 0.2
	splitSeed     = 42
	versionLayout = "20060102T150405Z"
)

// TrainingSet holds the feature vectors of decided bids and their outcome
// labels (1 for won or approved, 0 otherwise), index-aligned.
type TrainingSet struct {
	Vectors []features.Vector
	Labels  []float64
}

// TrainingResult reports one training run.
type TrainingResult struct {
	Version    string          `json:"version"`
	Rows       int             `json:"rows"`
	TestRows   int             `json:"test_rows"`
	WinEval    Evaluation      `json:"win_eval"`
	RiskEval   Evaluation      `json:"risk_eval"`
	Importance []FeatureWeight `json:"importance"`
	Duration   time.Duration   `json:"duration"`
	Skipped    bool            `json:"skipped"`
}

// Train fits the win and risk models on the given set and persists a new
// artifact version. When force is false and a trained artifact already
// exists, training is skipped and the existing version is reported.
// Training sets smaller than MinTrainingRows fail with ErrInsufficientData.
func (e *Engine) Train(ctx context.Context, set TrainingSet, force bool) (*TrainingResult, error) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	if !force {
		if artifact, err := e.Current(); err == nil {
			e.logger.WithField("version", artifact.Manifest.Version).
				Info("Models already trained, skipping")
			MLTrainingJobsTotal.WithLabelValues("skipped").Inc()
			return &TrainingResult{
				Version: artifact.Manifest.Version,
				Rows:    artifact.Manifest.TrainingRows,
				Skipped: true,
			}, nil
		}
	}

	start := time.Now()
	n := len(set.Vectors)
	if n != len(set.Labels) {
		return nil, fmt.Errorf("training set misaligned: %d vectors, %d labels", n, len(set.Labels))
	}
	if n < MinTrainingRows {
		MLTrainingJobsTotal.WithLabelValues("skipped").Inc()
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrInsufficientData, n, MinTrainingRows)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pipeline := preprocess.NewPipeline()
	matrix, err := pipeline.FitTransform(set.Vectors)
	if err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to preprocess training set: %w", err)
	}

	// Risk labels come from the raw feature values, before encoding and
	// scaling, and are split with the same permutation as the win labels.
	riskLabels := make([]float64, n)
	for i, vec := range set.Vectors {
		riskLabels[i] = riskLabel(vec)
	}

	trainIdx, testIdx := trainTestSplit(n, testFraction, splitSeed)
	xTrain, winTrain, riskTrain := selectRows(matrix, set.Labels, riskLabels, trainIdx)
	xTest, winTest, riskTest := selectRows(matrix, set.Labels, riskLabels, testIdx)

	winModel := gbm.NewRegressor(gbm.DefaultParams())
	if err := winModel.Fit(xTrain, winTrain); err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to fit win model: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	riskModel := gbm.NewRegressor(gbm.DefaultParams())
	if err := riskModel.Fit(xTrain, riskTrain); err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to fit risk model: %w", err)
	}

	winPreds, err := winModel.PredictBatch(xTest)
	if err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to evaluate win model: %w", err)
	}
	riskPreds, err := riskModel.PredictBatch(xTest)
	if err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to evaluate risk model: %w", err)
	}
	winEval := Evaluate(winPreds, winTest)
	riskEval := Evaluate(riskPreds, riskTest)

	importance, err := rankImportance(winModel)
	if err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	createdAt := time.Now().UTC()
	artifact := &Artifact{
		Manifest: Manifest{
			SchemaVersion: features.SchemaVersion,
			Version:       createdAt.Format(versionLayout),
			CreatedAt:     createdAt,
			TrainingRows:  n,
			TestRows:      len(testIdx),
			WinEval:       winEval,
			RiskEval:      riskEval,
		},
		WinModel:   winModel,
		RiskModel:  riskModel,
		Pipeline:   pipeline,
		Importance: importance,
	}

	if err := e.store.Save(artifact); err != nil {
		MLTrainingJobsTotal.WithLabelValues("failure").Inc()
		return nil, fmt.Errorf("failed to persist artifact: %w", err)
	}
	e.swap(artifact)

	duration := time.Since(start)
	MLTrainingJobsTotal.WithLabelValues("success").Inc()
	MLTrainingDuration.Observe(duration.Seconds())
	MLTrainingRows.Set(float64(n))
	if winEval.Evaluable {
		MLModelAccuracy.WithLabelValues("win_predictor").Set(winEval.Accuracy)
	}
	if riskEval.Evaluable {
		MLModelAccuracy.WithLabelValues("risk_predictor").Set(riskEval.Accuracy)
	}

	fields := logrus.Fields{
		"version":   artifact.Manifest.Version,
		"rows":      n,
		"test_rows": len(testIdx),
		"duration":  duration,
	}
	if winEval.Evaluable {
		fields["win_accuracy"] = winEval.Accuracy
		fields["win_precision"] = winEval.Precision
		fields["win_recall"] = winEval.Recall
		fields["win_f1"] = winEval.F1
	} else {
		fields["win_eval"] = "single class in test split"
	}
	e.logger.WithFields(fields).Info("Models trained")

	return &TrainingResult{
		Version:    artifact.Manifest.Version,
		Rows:       n,
		TestRows:   len(testIdx),
		WinEval:    winEval,
		RiskEval:   riskEval,
		Importance: importance,
		Duration:   duration,
	}, nil
}

// riskLabel is the rule-based risk target the risk model learns from.
func riskLabel(vec features.Vector) float64 {
	risk := 0.0
	if vec.Numeric[features.FeatBidValue] > 1000000 {
		risk += 0.3
	}
	if vec.Numeric[features.FeatRelationshipScore] < 30 {
		risk += 0.2
	}
	if vec.Numeric[features.FeatComplexityScore] > 0.7 {
		risk += 0.2
	}
	if vec.Numeric[features.FeatDaysUntilDue] < 7 {
		risk += 0.2
	}
	return clamp01(risk)
}

// trainTestSplit shuffles row indices with a fixed seed and carves off the
// test fraction, rounded up. Using one permutation for every label series
// keeps rows and targets aligned.
func trainTestSplit(n int, fraction float64, seed int64) (train, test []int) {
	r := rand.New(rand.NewSource(seed))
	perm := r.Perm(n)
	testSize := int(math.Ceil(float64(n) * fraction))
	return perm[testSize:], perm[:testSize]
}

func selectRows(matrix [][]float64, labels, riskLabels []float64, idx []int) ([][]float64, []float64, []float64) {
	x := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	risk := make([]float64, len(idx))
	for i, j := range idx {
		x[i] = matrix[j]
		y[i] = labels[j]
		risk[i] = riskLabels[j]
	}
	return x, y, risk
}

// rankImportance pairs the win model's importances with feature names,
// highest first.
func rankImportance(model *gbm.Regressor) ([]FeatureWeight, error) {
	weights, err := model.FeatureImportances()
	if err != nil {
		return nil, fmt.Errorf("failed to read feature importances: %w", err)
	}

	names := features.Names()
	if len(weights) != len(names) {
		return nil, fmt.Errorf("%w: %d importances for %d features", ErrSchemaMismatch, len(weights), len(names))
	}

	ranked := make([]FeatureWeight, len(names))
	for i, name := range names {
		ranked[i] = FeatureWeight{Name: name, Weight: weights[i]}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Weight == ranked[j].Weight {
			return ranked[i].Name < ranked[j].Name
		}
		return ranked[i].Weight > ranked[j].Weight
	})
	return ranked, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
