package gbm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTrainingSet  = errors.New("gbm: empty training set")
	ErrDimensionMismatch = errors.New("gbm: dimension mismatch")
	ErrNotFitted         = errors.New("gbm: model not fitted")
)

// Params are the boosting hyperparameters.
type Params struct {
	NEstimators     int     `json:"n_estimators"`
	LearningRate    float64 `json:"learning_rate"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
}

// DefaultParams returns the configuration used by the production models.
func DefaultParams() Params {
	return Params{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
}

// Regressor is a gradient-boosted regression forest fit with squared-error
// loss. The zero value is unfit; use NewRegressor and Fit, or unmarshal a
// serialized model. All state lives in exported fields so a fitted model
// round-trips through encoding/json without loss.
type Regressor struct {
	Params     Params    `json:"params"`
	NFeatures  int       `json:"n_features"`
	Init       float64   `json:"init"`
	Trees      []*tree   `json:"trees"`
	Importance []float64 `json:"importance"`
}

func NewRegressor(params Params) *Regressor {
	return &Regressor{Params: params}
}

// Fit trains the ensemble on x and y. The first tree fits the residuals
// around the target mean; each later tree fits the residuals left by the
// shrunken ensemble so far.
func (r *Regressor) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d rows, %d targets", ErrDimensionMismatch, len(x), len(y))
	}
	nFeatures := len(x[0])
	for i, row := range x {
		if len(row) != nFeatures {
			return fmt.Errorf("%w: row %d has %d features, expected %d", ErrDimensionMismatch, i, len(row), nFeatures)
		}
	}

	r.NFeatures = nFeatures
	r.Init = mean(y)
	r.Trees = make([]*tree, 0, r.Params.NEstimators)
	r.Importance = make([]float64, nFeatures)

	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - r.Init
	}

	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}

	builder := &treeBuilder{
		maxDepth:        r.Params.MaxDepth,
		minSamplesSplit: r.Params.MinSamplesSplit,
		minSamplesLeaf:  r.Params.MinSamplesLeaf,
		importance:      r.Importance,
	}

	for m := 0; m < r.Params.NEstimators; m++ {
		t := &tree{Root: builder.build(x, residuals, indices, 0)}
		r.Trees = append(r.Trees, t)
		for i, row := range x {
			residuals[i] -= r.Params.LearningRate * t.predict(row)
		}
	}

	normalize(r.Importance)
	return nil
}

// Predict scores one row.
func (r *Regressor) Predict(row []float64) (float64, error) {
	if len(r.Trees) == 0 {
		return 0, ErrNotFitted
	}
	if len(row) != r.NFeatures {
		return 0, fmt.Errorf("%w: row has %d features, expected %d", ErrDimensionMismatch, len(row), r.NFeatures)
	}
	pred := r.Init
	for _, t := range r.Trees {
		pred += r.Params.LearningRate * t.predict(row)
	}
	return pred, nil
}

// PredictBatch scores every row of x.
func (r *Regressor) PredictBatch(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		p, err := r.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// FeatureImportances returns the per-feature share of the total
// squared-error reduction across all trees. The shares sum to 1 unless no
// split was ever made.
func (r *Regressor) FeatureImportances() ([]float64, error) {
	if len(r.Trees) == 0 {
		return nil, ErrNotFitted
	}
	return append([]float64(nil), r.Importance...), nil
}

// Fitted reports whether the model has trees to score with.
func (r *Regressor) Fitted() bool {
	return len(r.Trees) > 0
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func normalize(values []float64) {
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
