package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestForest_PredictAveragesTrees(t *testing.T) {
	forest := &Forest{Trees: []Tree{priceStump(), weekendStump()}}
	require.NoError(t, forest.Validate())

	x := mat.NewDense(3, 12, append(append(row(10, 1), row(12, 0)...), row(5, 0)...))

	out, err := forest.Predict(x)
	require.NoError(t, err)

	assert.Equal(t, []float64{90, 50, 70}, out)
}

func TestForest_ThresholdGoesLeftOnEqual(t *testing.T) {
	forest := &Forest{Trees: []Tree{priceStump()}}

	out, err := forest.Predict(mat.NewDense(1, 12, row(10, 0)))
	require.NoError(t, err)
	assert.Equal(t, []float64{100}, out)
}

func TestForest_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		forest Forest
	}{
		{"no trees", Forest{}},
		{"empty tree", Forest{Trees: []Tree{{}}}},
		{"feature out of range", Forest{Trees: []Tree{{Nodes: []Node{
			{Feature: 12, Left: 1, Right: 2}, {Left: -1}, {Left: -1},
		}}}}},
		{"child out of range", Forest{Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Left: 1, Right: 5}, {Left: -1},
		}}}}},
		{"backward edge", Forest{Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Left: 1, Right: 2}, {Feature: 0, Left: 0, Right: 2}, {Left: -1},
		}}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.forest.Validate())
		})
	}
}

func TestLinear_Predict(t *testing.T) {
	coef := make([]float64, 12)
	coef[2] = -2  // price
	coef[11] = 10 // weekend
	linear := &Linear{Intercept: 100, Coefficients: coef}
	require.NoError(t, linear.Validate())

	out, err := linear.Predict(mat.NewDense(2, 12, append(row(10, 1), row(5, 0)...)))
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 90}, out)
}

func TestLinear_ValidateCoefficientCount(t *testing.T) {
	assert.Error(t, (&Linear{Coefficients: []float64{1, 2}}).Validate())
}
