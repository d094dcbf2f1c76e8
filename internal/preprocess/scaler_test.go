package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalerStandardizesColumns(t *testing.T) {
	scaler := NewStandardScaler()

	matrix := [][]float64{
		{1, 100},
		{2, 200},
		{3, 300},
		{4, 400},
	}

	scaled, err := scaler.FitTransform(matrix)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		column := make([]float64, len(scaled))
		for i := range scaled {
			column[i] = scaled[i][j]
		}
		assert.InDelta(t, 0, average(column), 1e-9, "column %d mean", j)
		assert.InDelta(t, 1, stddev(column), 1e-9, "column %d stddev", j)
	}
}

func TestScalerZeroVarianceColumn(t *testing.T) {
	scaler := NewStandardScaler()

	matrix := [][]float64{
		{5, 1},
		{5, 2},
		{5, 3},
	}

	scaled, err := scaler.FitTransform(matrix)
	require.NoError(t, err)

	for i := range scaled {
		assert.Equal(t, 0.0, scaled[i][0])
	}
	assert.Equal(t, 1.0, scaler.Scales[0])
}

func TestScalerTransformUsesFitStatistics(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.FitTransform([][]float64{{0}, {10}})
	require.NoError(t, err)

	// mean 5, stddev 5
	out, err := scaler.Transform([]float64{20})
	require.NoError(t, err)
	assert.InDelta(t, 3, out[0], 1e-9)
}

func TestScalerRejectsWidthMismatch(t *testing.T) {
	scaler := NewStandardScaler()
	_, err := scaler.FitTransform([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	_, err = scaler.Transform([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestScalerNotFitted(t *testing.T) {
	scaler := NewStandardScaler()

	_, err := scaler.Transform([]float64{1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestScalerRejectsRaggedMatrix(t *testing.T) {
	scaler := NewStandardScaler()

	err := scaler.Fit([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}
