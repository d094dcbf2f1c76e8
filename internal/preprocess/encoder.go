// Package preprocess fits and applies the categorical encoders and the
// standard scaler that sit between feature extraction and the models.
// Fitted state is immutable at inference time: Transform never learns
// new categories or statistics.
package preprocess

import (
	"errors"
	"fmt"
)

var (
	// ErrUnseenCategory indicates a categorical value that was not present
	// during fit. Recoverable: the predict path falls back to the default
	// prediction.
	ErrUnseenCategory = errors.New("category not seen during fit")

	// ErrNotFitted indicates transform was called before fit.
	ErrNotFitted = errors.New("preprocessor not fitted")
)

// unknownLabel stands in for empty categorical values, mirroring the
// extractor's fallback for unrecorded industries.
const unknownLabel = "unknown"

// LabelEncoder maps category strings to numeric codes. Codes are assigned
// in first-encounter order during fit and are frozen afterwards.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

// NewLabelEncoder creates an unfitted label encoder
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{index: make(map[string]int)}
}

// FitTransform learns codes for the column's values and returns them.
// Calling it again extends the existing mapping, matching a refit over a
// fresh encoder in the trainer (trainers always start from new encoders).
func (e *LabelEncoder) FitTransform(values []string) []float64 {
	if e.index == nil {
		e.rebuildIndex()
	}

	codes := make([]float64, len(values))
	for i, v := range values {
		v = normalizeLabel(v)
		code, ok := e.index[v]
		if !ok {
			code = len(e.Classes)
			e.Classes = append(e.Classes, v)
			e.index[v] = code
		}
		codes[i] = float64(code)
	}
	return codes
}

// Transform returns the fitted code for one value. Values absent from the
// fitted mapping fail with ErrUnseenCategory.
func (e *LabelEncoder) Transform(value string) (float64, error) {
	if len(e.Classes) == 0 {
		return 0, ErrNotFitted
	}
	if e.index == nil {
		e.rebuildIndex()
	}

	value = normalizeLabel(value)
	code, ok := e.index[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenCategory, value)
	}
	return float64(code), nil
}

// rebuildIndex restores the lookup map after JSON decoding, which only
// carries Classes.
func (e *LabelEncoder) rebuildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

func normalizeLabel(v string) string {
	if v == "" {
		return unknownLabel
	}
	return v
}
