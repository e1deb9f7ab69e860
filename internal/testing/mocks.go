package testing

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Column positions used by MockPredictor (see domain.FeatureNames)
const (
	colPrice     = 2
	colPromotion = 6
	colWeekend   = 11
)

// MockPredictor is a deterministic stand-in for the model adapter:
// units = Base + PriceSlope*price + PromoLift*promotion + WeekendLift*weekend
type MockPredictor struct {
	Base        float64
	PriceSlope  float64
	PromoLift   float64
	WeekendLift float64

	mu    sync.Mutex
	calls int
	rows  int
	err   error
}

// NewMockPredictor returns a price-sensitive predictor: 200 - 5*price
func NewMockPredictor() *MockPredictor {
	return &MockPredictor{Base: 200, PriceSlope: -5}
}

// SetError makes every subsequent Predict call fail with err
func (m *MockPredictor) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Predict was invoked
func (m *MockPredictor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// RowsScored returns the total number of rows passed to Predict
func (m *MockPredictor) RowsScored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows
}

// Predict implements the predictor contract
func (m *MockPredictor) Predict(x *mat.Dense) ([]float64, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if x == nil {
		return []float64{}, nil
	}

	rows, _ := x.Dims()
	m.mu.Lock()
	m.rows += rows
	m.mu.Unlock()

	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = m.Base +
			m.PriceSlope*x.At(i, colPrice) +
			m.PromoLift*x.At(i, colPromotion) +
			m.WeekendLift*x.At(i, colWeekend)
	}
	return out, nil
}
