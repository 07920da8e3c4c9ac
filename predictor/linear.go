package predictor

import (
	"errors"
	"fmt"
	"math"

	"delivery-eta-api/features"
	"delivery-eta-api/schema"

	"gonum.org/v1/gonum/mat"
)

// LinearModel is intercept + w·x with w laid out in schema order.
type LinearModel struct {
	weights   *mat.VecDense
	intercept float64
	version   string
	variant   features.Variant
}

// NewLinearModel places coefficients by name. Schema columns without a
// coefficient get weight 0; a coefficient for a column the schema does not
// have is an error, since it means the model and schema are from different
// training runs.
func NewLinearModel(s *schema.Schema, v features.Variant, version string, intercept float64, coefficients map[string]float64) (*LinearModel, error) {
	if s == nil || s.Len() == 0 {
		return nil, errors.New("linear model needs a non-empty schema")
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("intercept is not finite: %v", intercept)
	}

	w := make([]float64, s.Len())
	for name, c := range coefficients {
		i, ok := s.Index(name)
		if !ok {
			return nil, fmt.Errorf("coefficient for unknown feature %q", name)
		}
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient for %q is not finite: %v", name, c)
		}
		w[i] = c
	}

	return &LinearModel{
		weights:   mat.NewVecDense(len(w), w),
		intercept: intercept,
		version:   version,
		variant:   v,
	}, nil
}

func (m *LinearModel) Predict(r schema.Record) (float64, error) {
	if r.Len() != m.weights.Len() {
		return 0, fmt.Errorf("%w: got %d values, want %d", ErrShapeMismatch, r.Len(), m.weights.Len())
	}
	y := mat.Dot(m.weights, r.Vector()) + m.intercept
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("prediction is not finite: %v", y)
	}
	return y, nil
}

func (m *LinearModel) Version() string { return m.version }

func (m *LinearModel) Variant() features.Variant { return m.variant }
