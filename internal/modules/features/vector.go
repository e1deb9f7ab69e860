package features

import (
	"sort"

	"github.com/aristath/retail-insights/internal/domain"
	"gonum.org/v1/gonum/mat"
)

// Vector assembles rec's feature values in domain.FeatureNames order.
// rec must already carry derived features.
func Vector(rec domain.TransactionRecord) ([]float64, error) {
	if rec.Features == nil {
		return nil, &domain.MissingFieldError{Field: "derived features"}
	}
	f := rec.Features
	return []float64{
		rec.InventoryLevel,
		rec.UnitsOrdered,
		rec.Price,
		rec.Discount,
		f.EffectivePrice,
		f.PriceVsCompetitor,
		rec.Promotion,
		rec.CompetitorPrice,
		float64(f.Day),
		float64(f.Month),
		float64(f.Weekday),
		float64(f.Weekend),
	}, nil
}

// Matrix stacks the feature vectors of records row by row.
// Returns nil for an empty input since gonum has no zero-row matrices.
func Matrix(records []domain.TransactionRecord) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, nil
	}
	data := make([]float64, 0, len(records)*domain.FeatureCount)
	for i, rec := range records {
		v, err := Vector(rec)
		if err != nil {
			if mf, ok := err.(*domain.MissingFieldError); ok {
				mf.Row = i + 1
			}
			return nil, err
		}
		data = append(data, v...)
	}
	return mat.NewDense(len(records), domain.FeatureCount, data), nil
}

// FromMap builds a single feature row from named values, such as a prediction request.
// Every name in domain.FeatureNames must be present and no other key is accepted.
func FromMap(values map[string]float64) (*mat.Dense, error) {
	known := make(map[string]struct{}, domain.FeatureCount)
	for _, name := range domain.FeatureNames {
		known[name] = struct{}{}
	}
	var unknown []string
	for key := range values {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &domain.UnknownFieldError{Field: unknown[0]}
	}

	row := make([]float64, domain.FeatureCount)
	for i, name := range domain.FeatureNames {
		v, ok := values[name]
		if !ok || !finite(v) {
			return nil, &domain.MissingFieldError{Field: name}
		}
		row[i] = v
	}
	return mat.NewDense(1, domain.FeatureCount, row), nil
}
