package forecasting

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// DailyPoint aggregates one calendar date of the projection chart
type DailyPoint struct {
	Date      string   `json:"date"`
	Actual    *float64 `json:"actual_units_sold,omitempty"`
	Predicted float64  `json:"predicted_units_sold"`
	Smoothed  *float64 `json:"smoothed_predicted,omitempty"` // moving average, absent until the window fills
}

// Accuracy compares predictions against observed Units Sold
type Accuracy struct {
	Rows int     `json:"rows"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"` // percent, rows with zero actuals are skipped
}

// Projection sums actual and predicted units per date (ascending) and smooths the
// predicted totals with a simple moving average of the given window.
func Projection(records []domain.TransactionRecord, predictions []float64, window int) ([]DailyPoint, error) {
	if len(records) != len(predictions) {
		return nil, fmt.Errorf("have %d predictions for %d records", len(predictions), len(records))
	}

	type bucket struct {
		actual    float64
		hasActual bool
		predicted float64
	}
	byDate := make(map[time.Time]*bucket)
	for i, rec := range records {
		key := truncateDay(rec.Date)
		b, ok := byDate[key]
		if !ok {
			b = &bucket{}
			byDate[key] = b
		}
		b.predicted += predictions[i]
		if rec.UnitsSold != nil {
			b.actual += *rec.UnitsSold
			b.hasActual = true
		}
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]DailyPoint, len(dates))
	totals := make([]float64, len(dates))
	for i, d := range dates {
		b := byDate[d]
		points[i] = DailyPoint{Date: d.Format("2006-01-02"), Predicted: b.predicted}
		if b.hasActual {
			actual := b.actual
			points[i].Actual = &actual
		}
		totals[i] = b.predicted
	}

	if window > 1 && len(totals) >= window {
		sma := talib.Sma(totals, window)
		for i := window - 1; i < len(sma); i++ {
			v := sma[i]
			points[i].Smoothed = &v
		}
	}
	return points, nil
}

// Evaluate scores predictions against the rows that carry a target
func Evaluate(records []domain.TransactionRecord, predictions []float64) (Accuracy, error) {
	if len(records) != len(predictions) {
		return Accuracy{}, fmt.Errorf("have %d predictions for %d records", len(predictions), len(records))
	}

	var absErr, sqErr, pctErr []float64
	for i, rec := range records {
		if rec.UnitsSold == nil {
			continue
		}
		diff := predictions[i] - *rec.UnitsSold
		absErr = append(absErr, math.Abs(diff))
		sqErr = append(sqErr, diff*diff)
		if *rec.UnitsSold != 0 {
			pctErr = append(pctErr, math.Abs(diff / *rec.UnitsSold)*100)
		}
	}

	acc := Accuracy{Rows: len(absErr)}
	if len(absErr) == 0 {
		return acc, nil
	}
	acc.MAE = stat.Mean(absErr, nil)
	acc.RMSE = math.Sqrt(stat.Mean(sqErr, nil))
	if len(pctErr) > 0 {
		acc.MAPE = stat.Mean(pctErr, nil)
	}
	return acc, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
