// Package scenarios re-scores a category's rows at a hypothetical price and
// reports the relative change in mean predicted demand.
//
// This is price-response simulation with the forecasting model evaluated at two
// price points. It is not a causal elasticity estimate.
package scenarios

import (
	"math"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/features"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// Scorer predicts units sold for rows whose derived features are already attached.
// Stored features must be used as-is.
type Scorer interface {
	Score(records []domain.TransactionRecord) ([]float64, error)
}

// Result is the outcome of one what-if run
type Result struct {
	Category      string  `json:"category"`
	NewPrice      float64 `json:"new_price"`
	BaselinePrice float64 `json:"baseline_price"` // mean stored price of the category
	Rows          int     `json:"rows"`
	OldDemand     float64 `json:"old_demand"`
	NewDemand     float64 `json:"new_demand"`
	PctChange     float64 `json:"pct_change"`
}

// CurvePoint is one price on a demand curve
type CurvePoint struct {
	Price     float64 `json:"price"`
	NewDemand float64 `json:"new_demand"`
	PctChange float64 `json:"pct_change"`
}

// Curve is a set of what-if runs sharing one baseline
type Curve struct {
	Category      string       `json:"category"`
	BaselinePrice float64      `json:"baseline_price"`
	Rows          int          `json:"rows"`
	OldDemand     float64      `json:"old_demand"`
	Points        []CurvePoint `json:"points"`
}

// Simulator runs counterfactual price scenarios. It keeps no per-call state.
type Simulator struct {
	scorer Scorer
	log    zerolog.Logger
}

// NewSimulator creates a simulator scoring through scorer
func NewSimulator(scorer Scorer, log zerolog.Logger) *Simulator {
	return &Simulator{
		scorer: scorer,
		log:    log.With().Str("service", "scenarios").Logger(),
	}
}

// Simulate compares mean predicted demand for category at its stored prices
// against the same rows repriced to newPrice. records is never modified.
func (s *Simulator) Simulate(records []domain.TransactionRecord, category string, newPrice float64) (*Result, error) {
	if !finite(newPrice) {
		return nil, &domain.MissingFieldError{Field: "new_price"}
	}

	b, err := s.baseline(records, category)
	if err != nil {
		return nil, err
	}

	newDemand, pct, err := s.reprice(b, newPrice)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Category:      category,
		NewPrice:      newPrice,
		BaselinePrice: b.price,
		Rows:          len(b.rows),
		OldDemand:     b.demand,
		NewDemand:     newDemand,
		PctChange:     pct,
	}

	s.log.Debug().
		Str("category", category).
		Float64("new_price", newPrice).
		Float64("old_demand", b.demand).
		Float64("new_demand", newDemand).
		Float64("pct_change", pct).
		Msg("Scenario simulated")

	return result, nil
}

// Curve simulates every price in prices against a single baseline scoring pass
func (s *Simulator) Curve(records []domain.TransactionRecord, category string, prices []float64) (*Curve, error) {
	for _, p := range prices {
		if !finite(p) {
			return nil, &domain.MissingFieldError{Field: "new_price"}
		}
	}

	b, err := s.baseline(records, category)
	if err != nil {
		return nil, err
	}

	curve := &Curve{
		Category:      category,
		BaselinePrice: b.price,
		Rows:          len(b.rows),
		OldDemand:     b.demand,
		Points:        make([]CurvePoint, 0, len(prices)),
	}
	for _, p := range prices {
		newDemand, pct, err := s.reprice(b, p)
		if err != nil {
			return nil, err
		}
		curve.Points = append(curve.Points, CurvePoint{Price: p, NewDemand: newDemand, PctChange: pct})
	}
	return curve, nil
}

type baseline struct {
	rows   []domain.TransactionRecord
	price  float64
	demand float64
}

// baseline filters the category and scores it with the stored features untouched
func (s *Simulator) baseline(records []domain.TransactionRecord, category string) (*baseline, error) {
	rows := filterCategory(records, category)
	if len(rows) == 0 {
		return nil, &domain.EmptyCategoryError{Category: category}
	}

	predictions, err := s.scorer.Score(rows)
	if err != nil {
		return nil, err
	}
	demand := stat.Mean(predictions, nil)
	if demand == 0 {
		return nil, &domain.DivisionByZeroError{Quantity: "old demand"}
	}

	return &baseline{rows: rows, price: meanPrice(rows), demand: demand}, nil
}

func (s *Simulator) reprice(b *baseline, newPrice float64) (float64, float64, error) {
	counterfactual := make([]domain.TransactionRecord, len(b.rows))
	for i, rec := range b.rows {
		repriced, err := features.Reprice(rec, newPrice)
		if err != nil {
			if mf, ok := err.(*domain.MissingFieldError); ok && mf.Row == 0 {
				mf.Row = i + 1
			}
			return 0, 0, err
		}
		counterfactual[i] = repriced
	}

	predictions, err := s.scorer.Score(counterfactual)
	if err != nil {
		return 0, 0, err
	}
	newDemand := stat.Mean(predictions, nil)
	return newDemand, (newDemand - b.demand) / b.demand * 100, nil
}

// filterCategory returns the rows whose category equals category exactly.
// The returned slice is new; the records it holds share nothing mutable with the input.
func filterCategory(records []domain.TransactionRecord, category string) []domain.TransactionRecord {
	var out []domain.TransactionRecord
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func meanPrice(records []domain.TransactionRecord) float64 {
	prices := make([]float64, len(records))
	for i, rec := range records {
		prices[i] = rec.Price
	}
	return stat.Mean(prices, nil)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
