package preprocess

import (
	"fmt"

	"github.com/yourusername/bidsight/internal/features"
)

// Pipeline combines the per-column label encoders and the standard scaler
// fitted together on one training table. Encoders and scaler are persisted
// and loaded as parts of the same artifact set; assembling a pipeline from
// mismatched parts is an invariant violation guarded by the artifact
// manifest's schema version.
type Pipeline struct {
	Encoders map[string]*LabelEncoder
	Scaler   *StandardScaler
}

// NewPipeline creates an unfitted pipeline with fresh encoders for every
// categorical schema field.
func NewPipeline() *Pipeline {
	encoders := make(map[string]*LabelEncoder)
	for _, name := range features.CategoricalNames() {
		encoders[name] = NewLabelEncoder()
	}
	return &Pipeline{
		Encoders: encoders,
		Scaler:   NewStandardScaler(),
	}
}

// Assemble rebuilds a fitted pipeline from loaded artifact parts.
func Assemble(encoders map[string]*LabelEncoder, scaler *StandardScaler) *Pipeline {
	return &Pipeline{Encoders: encoders, Scaler: scaler}
}

// Fitted reports whether the pipeline carries usable fitted state.
func (p *Pipeline) Fitted() bool {
	if p.Scaler == nil || len(p.Scaler.Means) == 0 {
		return false
	}
	for _, name := range features.CategoricalNames() {
		enc, ok := p.Encoders[name]
		if !ok || len(enc.Classes) == 0 {
			return false
		}
	}
	return true
}

// FitTransform encodes every categorical column in first-encounter order,
// then standardizes all columns, using statistics from this table only.
// Rows and columns follow the feature schema order.
func (p *Pipeline) FitTransform(table []features.Vector) ([][]float64, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("fit requires a non-empty feature table")
	}

	for i, vec := range table {
		if err := vec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	fields := features.Schema()
	matrix := make([][]float64, len(table))
	for i := range matrix {
		matrix[i] = make([]float64, len(fields))
	}

	for j, field := range fields {
		if field.Kind == features.KindNumeric {
			for i, vec := range table {
				matrix[i][j] = vec.Numeric[field.Name]
			}
			continue
		}

		column := make([]string, len(table))
		for i, vec := range table {
			column[i] = vec.Categorical[field.Name]
		}
		codes := p.Encoders[field.Name].FitTransform(column)
		for i, code := range codes {
			matrix[i][j] = code
		}
	}

	return p.Scaler.FitTransform(matrix)
}

// TransformRow applies the fitted encoders and scaler to a single vector.
// Unseen categorical values surface ErrUnseenCategory for the caller's
// default-prediction fallback.
func (p *Pipeline) TransformRow(vec features.Vector) ([]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	if err := vec.Validate(); err != nil {
		return nil, err
	}

	fields := features.Schema()
	row := make([]float64, len(fields))
	for j, field := range fields {
		if field.Kind == features.KindNumeric {
			row[j] = vec.Numeric[field.Name]
			continue
		}

		code, err := p.Encoders[field.Name].Transform(vec.Categorical[field.Name])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
		row[j] = code
	}

	return p.Scaler.Transform(row)
}
