// Package dataset loads the historical transaction table and serves read-only
// snapshots of it to the forecasting, scenario and explorer endpoints.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aristath/retail-insights/internal/domain"
)

// dateLayouts are tried in order for the Date column
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// numericColumns lists the raw numeric inputs every row must carry
var numericColumns = []string{
	domain.FeatureInventoryLevel,
	domain.FeatureUnitsOrdered,
	domain.FeaturePrice,
	domain.FeatureDiscount,
	domain.FeaturePromotion,
	domain.FeatureCompetitorPrice,
}

// LoadCSV parses a header-first CSV into transaction records in file order.
// Unknown columns are ignored. Units Sold is optional: an absent column or an
// empty cell leaves the record without a target. Row numbers in errors count
// data rows from 1.
func LoadCSV(r io.Reader) ([]domain.TransactionRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	required := append([]string{domain.ColumnDate, domain.ColumnCategory}, numericColumns...)
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, &domain.MissingFieldError{Field: name}
		}
	}
	unitsCol, hasUnits := index[domain.ColumnUnitsSold]

	var records []domain.TransactionRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("malformed dataset at row %d: %w", row, err)
			}
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}

		cell := func(name string) string {
			return strings.TrimSpace(fields[index[name]])
		}

		rec := domain.TransactionRecord{Category: cell(domain.ColumnCategory)}
		if rec.Date, err = parseDate(cell(domain.ColumnDate)); err != nil {
			return nil, &domain.MissingFieldError{Field: domain.ColumnDate, Row: row}
		}
		if rec.Category == "" {
			return nil, &domain.MissingFieldError{Field: domain.ColumnCategory, Row: row}
		}

		values := make(map[string]float64, len(numericColumns))
		for _, name := range numericColumns {
			v, err := parseNumber(cell(name))
			if err != nil {
				return nil, &domain.MissingFieldError{Field: name, Row: row}
			}
			values[name] = v
		}
		rec.InventoryLevel = values[domain.FeatureInventoryLevel]
		rec.UnitsOrdered = values[domain.FeatureUnitsOrdered]
		rec.Price = values[domain.FeaturePrice]
		rec.Discount = values[domain.FeatureDiscount]
		rec.Promotion = values[domain.FeaturePromotion]
		rec.CompetitorPrice = values[domain.FeatureCompetitorPrice]

		if hasUnits {
			if raw := strings.TrimSpace(fields[unitsCol]); raw != "" {
				v, err := parseNumber(raw)
				if err != nil {
					return nil, &domain.MissingFieldError{Field: domain.ColumnUnitsSold, Row: row}
				}
				rec.UnitsSold = &v
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseNumber accepts plain numbers and, for flag columns, true/false
func parseNumber(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("non-finite value %q", s)
		}
		return v, nil
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("not a number: %q", s)
}
