// Package features derives the model's feature columns from raw transaction rows.
//
// Derivation is a pure function of a record's own fields: the same input always
// yields bit-identical outputs and the caller's records are never modified.
package features

import (
	"math"
	"sort"
	"time"

	"github.com/aristath/retail-insights/internal/domain"
)

// Derive sorts records stably by date (ascending) and attaches derived features.
// The input slice is left untouched. A MissingFieldError's Row is the record's
// 1-based position in the input, not in date order.
func Derive(records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return records[order[i]].Date.Before(records[order[j]].Date)
	})

	out := make([]domain.TransactionRecord, len(records))
	for i, idx := range order {
		derived, err := DeriveRecord(records[idx])
		if err != nil {
			if mf, ok := err.(*domain.MissingFieldError); ok {
				mf.Row = idx + 1
			}
			return nil, err
		}
		out[i] = derived
	}
	return out, nil
}

// DeriveEach attaches derived features without reordering. Rows keep their input positions.
func DeriveEach(records []domain.TransactionRecord) ([]domain.TransactionRecord, error) {
	out := make([]domain.TransactionRecord, len(records))
	for i, rec := range records {
		derived, err := DeriveRecord(rec)
		if err != nil {
			if mf, ok := err.(*domain.MissingFieldError); ok {
				mf.Row = i + 1
			}
			return nil, err
		}
		out[i] = derived
	}
	return out, nil
}

// DeriveRecord returns a copy of rec with its DerivedFeatures computed
func DeriveRecord(rec domain.TransactionRecord) (domain.TransactionRecord, error) {
	if err := validate(rec); err != nil {
		return domain.TransactionRecord{}, err
	}

	out := rec.Clone()
	weekday := MondayWeekday(rec.Date)
	out.Features = &domain.DerivedFeatures{
		Day:               rec.Date.Day(),
		Month:             int(rec.Date.Month()),
		Weekday:           weekday,
		Weekend:           WeekendFlag(weekday),
		EffectivePrice:    EffectivePrice(rec.Price, rec.Discount),
		PriceVsCompetitor: rec.Price - rec.CompetitorPrice,
	}
	return out, nil
}

// Reprice returns a counterfactual copy of rec at newPrice. Effective price and
// price-vs-competitor are recomputed from the stored discount and competitor price.
// Calendar features are carried over untouched.
func Reprice(rec domain.TransactionRecord, newPrice float64) (domain.TransactionRecord, error) {
	out := rec.Clone()
	if out.Features == nil {
		derived, err := DeriveRecord(rec)
		if err != nil {
			return domain.TransactionRecord{}, err
		}
		out = derived
	}
	out.Price = newPrice
	out.Features.EffectivePrice = EffectivePrice(newPrice, out.Discount)
	out.Features.PriceVsCompetitor = newPrice - out.CompetitorPrice
	return out, nil
}

// MondayWeekday maps a date to 0=Monday .. 6=Sunday
func MondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekendFlag is 1 for Saturday (5) and Sunday (6), 0 otherwise
func WeekendFlag(weekday int) int {
	if weekday == 5 || weekday == 6 {
		return 1
	}
	return 0
}

// EffectivePrice applies a percentage discount to price
func EffectivePrice(price, discountPct float64) float64 {
	return price * (1 - discountPct/100)
}

func validate(rec domain.TransactionRecord) error {
	if rec.Date.IsZero() {
		return &domain.MissingFieldError{Field: domain.ColumnDate}
	}
	required := []struct {
		name  string
		value float64
	}{
		{domain.FeaturePrice, rec.Price},
		{domain.FeatureDiscount, rec.Discount},
		{domain.FeatureCompetitorPrice, rec.CompetitorPrice},
	}
	for _, f := range required {
		if !finite(f.value) {
			return &domain.MissingFieldError{Field: f.name}
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
