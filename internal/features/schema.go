// Package features turns bid records into the fixed-schema vectors
// consumed by the prediction models.
package features

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion identifies the feature layout. Artifact sets record the
// version they were fitted against and refuse to serve a different one.
const SchemaVersion = 1

// Kind distinguishes numeric features from label-encoded categoricals.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Field describes one feature column.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Feature names used outside this package.
const (
	FeatRelationshipScore = "customer_relationship_score"
	FeatDaysUntilDue      = "days_until_due"
	FeatBidValue          = "bid_value"
	FeatComplexityScore   = "complexity_score"
)

// schema is the canonical column order. Categorical membership is fixed
// here, never inferred from value types at encode time.
var schema = []Field{
	{Name: "bid_value", Kind: KindNumeric},
	{Name: "estimated_cost", Kind: KindNumeric},
	{Name: "profit_margin", Kind: KindNumeric},
	{Name: "days_until_due", Kind: KindNumeric},
	{Name: "complexity_score", Kind: KindNumeric},
	{Name: "customer_relationship_score", Kind: KindNumeric},
	{Name: "customer_annual_revenue", Kind: KindNumeric},
	{Name: "customer_type", Kind: KindCategorical},
	{Name: "customer_industry", Kind: KindCategorical},
	{Name: "historical_win_rate", Kind: KindNumeric},
	{Name: "avg_bid_value", Kind: KindNumeric},
	{Name: "team_size", Kind: KindNumeric},
	{Name: "review_cycle_count", Kind: KindNumeric},
	{Name: "description_length", Kind: KindNumeric},
	{Name: "requirements_count", Kind: KindNumeric},
	{Name: "business_unit", Kind: KindCategorical},
	{Name: "bid_level", Kind: KindCategorical},
	{Name: "priority", Kind: KindCategorical},
	{Name: "complexity", Kind: KindCategorical},
	{Name: "region", Kind: KindCategorical},
}

// Schema returns the canonical field list in column order.
func Schema() []Field {
	out := make([]Field, len(schema))
	copy(out, schema)
	return out
}

// Names returns all feature names in column order.
func Names() []string {
	names := make([]string, len(schema))
	for i, f := range schema {
		names[i] = f.Name
	}
	return names
}

// CategoricalNames returns the categorical feature names in column order.
func CategoricalNames() []string {
	var names []string
	for _, f := range schema {
		if f.Kind == KindCategorical {
			names = append(names, f.Name)
		}
	}
	return names
}

// Vector is one bid's features keyed by schema name.
type Vector struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// Validate checks the vector carries exactly the schema's key set.
func (v Vector) Validate() error {
	for _, f := range schema {
		switch f.Kind {
		case KindNumeric:
			if _, ok := v.Numeric[f.Name]; !ok {
				return fmt.Errorf("feature vector missing numeric field %q", f.Name)
			}
		case KindCategorical:
			if _, ok := v.Categorical[f.Name]; !ok {
				return fmt.Errorf("feature vector missing categorical field %q", f.Name)
			}
		}
	}
	if len(v.Numeric)+len(v.Categorical) != len(schema) {
		return fmt.Errorf("feature vector has %d fields, schema has %d",
			len(v.Numeric)+len(v.Categorical), len(schema))
	}
	return nil
}

// JSON flattens the vector into a single name→value object for audit
// storage alongside predictions.
func (v Vector) JSON() (json.RawMessage, error) {
	flat := make(map[string]interface{}, len(v.Numeric)+len(v.Categorical))
	for k, val := range v.Numeric {
		flat[k] = val
	}
	for k, val := range v.Categorical {
		flat[k] = val
	}
	return json.Marshal(flat)
}
