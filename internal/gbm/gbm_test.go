package gbm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepData is a one-feature step: y jumps from 0 to 1 at x = 4.5.
func stepData() ([][]float64, []float64) {
	x := make([][]float64, 10)
	y := make([]float64, 10)
	for i := 0; i < 10; i++ {
		x[i] = []float64{float64(i)}
		if i >= 5 {
			y[i] = 1
		}
	}
	return x, y
}

func TestFitLearnsStepFunction(t *testing.T) {
	x, y := stepData()

	model := NewRegressor(DefaultParams())
	require.NoError(t, model.Fit(x, y))
	require.True(t, model.Fitted())

	preds, err := model.PredictBatch(x)
	require.NoError(t, err)
	for i, p := range preds {
		assert.InDelta(t, y[i], p, 0.01, "row %d", i)
	}
}

func TestFitConstantTarget(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []float64{4, 4, 4}

	model := NewRegressor(DefaultParams())
	require.NoError(t, model.Fit(x, y))

	assert.Equal(t, 4.0, model.Init)
	p, err := model.Predict([]float64{99})
	require.NoError(t, err)
	assert.Equal(t, 4.0, p)
}

func TestFeatureImportances(t *testing.T) {
	// Only the second feature carries signal; the first is noise constants.
	x := make([][]float64, 10)
	y := make([]float64, 10)
	for i := 0; i < 10; i++ {
		x[i] = []float64{float64(i * i % 7), float64(i)}
		if i >= 5 {
			y[i] = 1
		}
	}

	model := NewRegressor(DefaultParams())
	require.NoError(t, model.Fit(x, y))

	imp, err := model.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, imp, 2)

	sum := imp[0] + imp[1]
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, imp[1], imp[0])
	assert.InDelta(t, 1.0, imp[1], 1e-9)
}

func TestFitDeterministic(t *testing.T) {
	x, y := stepData()

	a := NewRegressor(DefaultParams())
	b := NewRegressor(DefaultParams())
	require.NoError(t, a.Fit(x, y))
	require.NoError(t, b.Fit(x, y))

	pa, err := a.PredictBatch(x)
	require.NoError(t, err)
	pb, err := b.PredictBatch(x)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestModelJSONRoundTrip(t *testing.T) {
	x, y := stepData()

	model := NewRegressor(DefaultParams())
	require.NoError(t, model.Fit(x, y))

	raw, err := json.Marshal(model)
	require.NoError(t, err)

	var restored Regressor
	require.NoError(t, json.Unmarshal(raw, &restored))

	want, err := model.PredictBatch(x)
	require.NoError(t, err)
	got, err := restored.PredictBatch(x)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	wantImp, err := model.FeatureImportances()
	require.NoError(t, err)
	gotImp, err := restored.FeatureImportances()
	require.NoError(t, err)
	assert.Equal(t, wantImp, gotImp)
}

func TestFitValidation(t *testing.T) {
	model := NewRegressor(DefaultParams())

	err := model.Fit(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyTrainingSet)

	err = model.Fit([][]float64{{1}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	err = model.Fit([][]float64{{1, 2}, {1}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestPredictValidation(t *testing.T) {
	model := NewRegressor(DefaultParams())

	_, err := model.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = model.FeatureImportances()
	assert.ErrorIs(t, err, ErrNotFitted)

	x, y := stepData()
	require.NoError(t, model.Fit(x, y))

	_, err = model.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
