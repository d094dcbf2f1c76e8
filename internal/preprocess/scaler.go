package preprocess

import (
	"fmt"
	"math"
)

// StandardScaler standardizes columns to zero mean and unit variance using
// statistics computed at fit time. The same transform is applied at train
// and inference time; it is never refit on inference rows.
type StandardScaler struct {
	Means  []float64 `json:"means"`
	Scales []float64 `json:"scales"`
}

// NewStandardScaler creates an unfitted scaler
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and scale over the training matrix.
// Zero-variance columns get scale 1 so they transform to 0 instead of NaN.
func (s *StandardScaler) Fit(matrix [][]float64) error {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return fmt.Errorf("fit requires a non-empty matrix")
	}

	cols := len(matrix[0])
	s.Means = make([]float64, cols)
	s.Scales = make([]float64, cols)

	for j := 0; j < cols; j++ {
		column := make([]float64, len(matrix))
		for i, row := range matrix {
			if len(row) != cols {
				return fmt.Errorf("ragged matrix: row %d has %d columns, want %d", i, len(row), cols)
			}
			column[i] = row[j]
		}
		s.Means[j] = average(column)
		scale := stddev(column)
		if scale == 0 {
			scale = 1
		}
		s.Scales[j] = scale
	}

	return nil
}

// Transform standardizes one row with the fitted statistics
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if len(s.Means) == 0 {
		return nil, ErrNotFitted
	}
	if len(row) != len(s.Means) {
		return nil, fmt.Errorf("row has %d columns, scaler fitted on %d", len(row), len(s.Means))
	}

	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Scales[j]
	}
	return out, nil
}

// FitTransform fits on the matrix and returns its standardized form
func (s *StandardScaler) FitTransform(matrix [][]float64) ([][]float64, error) {
	if err := s.Fit(matrix); err != nil {
		return nil, err
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
