package forecasting

import (
	"testing"

	"github.com/aristath/retail-insights/internal/domain"
	testingpkg "github.com/aristath/retail-insights/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjection_GroupsByDate(t *testing.T) {
	records := []domain.TransactionRecord{
		{Date: testingpkg.Day("2024-01-02"), UnitsSold: testingpkg.Units(10)},
		{Date: testingpkg.Day("2024-01-01"), UnitsSold: testingpkg.Units(5)},
		{Date: testingpkg.Day("2024-01-02"), UnitsSold: testingpkg.Units(7)},
		{Date: testingpkg.Day("2024-01-03")},
	}
	predictions := []float64{11, 4, 8, 9}

	points, err := Projection(records, predictions, 1)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "2024-01-01", points[0].Date)
	assert.Equal(t, 4.0, points[0].Predicted)
	assert.Equal(t, 5.0, *points[0].Actual)

	assert.Equal(t, "2024-01-02", points[1].Date)
	assert.Equal(t, 19.0, points[1].Predicted)
	assert.Equal(t, 17.0, *points[1].Actual)

	assert.Nil(t, points[2].Actual)
	for _, p := range points {
		assert.Nil(t, p.Smoothed)
	}
}

func TestProjection_MovingAverage(t *testing.T) {
	var records []domain.TransactionRecord
	var predictions []float64
	for i, v := range []float64{2, 4, 6, 8} {
		records = append(records, domain.TransactionRecord{Date: testingpkg.Day("2024-03-01").AddDate(0, 0, i)})
		predictions = append(predictions, v)
	}

	points, err := Projection(records, predictions, 2)
	require.NoError(t, err)

	assert.Nil(t, points[0].Smoothed)
	require.NotNil(t, points[1].Smoothed)
	assert.InDelta(t, 3.0, *points[1].Smoothed, 1e-9)
	assert.InDelta(t, 5.0, *points[2].Smoothed, 1e-9)
	assert.InDelta(t, 7.0, *points[3].Smoothed, 1e-9)
}

func TestProjection_LengthMismatch(t *testing.T) {
	_, err := Projection(testingpkg.NewRecordFixtures(), []float64{1}, 1)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	records := []domain.TransactionRecord{
		{UnitsSold: testingpkg.Units(10)},
		{UnitsSold: testingpkg.Units(20)},
		{UnitsSold: testingpkg.Units(0)},
		{}, // no target
	}
	predictions := []float64{12, 16, 3, 1000}

	acc, err := Evaluate(records, predictions)
	require.NoError(t, err)

	assert.Equal(t, 3, acc.Rows)
	assert.InDelta(t, 3.0, acc.MAE, 1e-9)          // (2+4+3)/3
	assert.InDelta(t, 3.109126351, acc.RMSE, 1e-6) // sqrt((4+16+9)/3)
	assert.InDelta(t, 20.0, acc.MAPE, 1e-9)        // (20%+20%)/2, zero actual skipped
}

func TestEvaluate_NoTargets(t *testing.T) {
	acc, err := Evaluate([]domain.TransactionRecord{{}}, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, Accuracy{}, acc)
}
