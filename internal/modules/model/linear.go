package model

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Linear is an ordinary linear regression: Intercept + Coefficients . x
type Linear struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Validate checks there is one coefficient per feature
func (l *Linear) Validate() error {
	if len(l.Coefficients) != domain.FeatureCount {
		return fmt.Errorf("linear model has %d coefficients, want %d", len(l.Coefficients), domain.FeatureCount)
	}
	return nil
}

// Predict implements Regressor
func (l *Linear) Predict(x *mat.Dense) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(l.Coefficients) {
		return nil, fmt.Errorf("got %d columns for %d coefficients", cols, len(l.Coefficients))
	}
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = l.Intercept + floats.Dot(x.RawRowView(i), l.Coefficients)
	}
	return out, nil
}
