// Package domain provides core domain models and types.
package domain

import "time"

// Feature column names, in the exact positional order the regressor was trained on.
const (
	FeatureInventoryLevel    = "Inventory Level"
	FeatureUnitsOrdered      = "Units Ordered"
	FeaturePrice             = "Price"
	FeatureDiscount          = "Discount"
	FeatureEffectivePrice    = "effective_price"
	FeaturePriceVsCompetitor = "price_vs_competitor"
	FeaturePromotion         = "Promotion"
	FeatureCompetitorPrice   = "Competitor Pricing"
	FeatureDay               = "day"
	FeatureMonth             = "month"
	FeatureWeekday           = "weekday"
	FeatureWeekend           = "weekend"
)

// FeatureNames is the column order of every feature vector handed to the model.
// Do not reorder: positional models depend on it.
var FeatureNames = [...]string{
	FeatureInventoryLevel,
	FeatureUnitsOrdered,
	FeaturePrice,
	FeatureDiscount,
	FeatureEffectivePrice,
	FeaturePriceVsCompetitor,
	FeaturePromotion,
	FeatureCompetitorPrice,
	FeatureDay,
	FeatureMonth,
	FeatureWeekday,
	FeatureWeekend,
}

// FeatureCount is the width of a feature vector
const FeatureCount = len(FeatureNames)

// Dataset column headers of the tabular input
const (
	ColumnDate      = "Date"
	ColumnCategory  = "Category"
	ColumnUnitsSold = "Units Sold"
)

// TransactionRecord is one row of observed or hypothetical sales data.
// Missing numeric inputs are represented as NaN.
type TransactionRecord struct {
	Date            time.Time        `json:"date"`
	Category        string           `json:"category"`
	InventoryLevel  float64          `json:"inventory_level"`
	UnitsOrdered    float64          `json:"units_ordered"`
	Price           float64          `json:"price"`
	Discount        float64          `json:"discount"` // percent, 0-100
	Promotion       float64          `json:"promotion"`
	CompetitorPrice float64          `json:"competitor_price"`
	UnitsSold       *float64         `json:"units_sold,omitempty"` // target, historical rows only
	Features        *DerivedFeatures `json:"features,omitempty"`
}

// DerivedFeatures is the computed, read-only view added to a TransactionRecord
type DerivedFeatures struct {
	Day               int     `json:"day"`
	Month             int     `json:"month"`
	Weekday           int     `json:"weekday"` // 0=Monday .. 6=Sunday
	Weekend           int     `json:"weekend"` // 1 when Weekday is 5 or 6
	EffectivePrice    float64 `json:"effective_price"`
	PriceVsCompetitor float64 `json:"price_vs_competitor"`
}

// Clone returns a deep copy so callers can modify prices without touching the original
func (r TransactionRecord) Clone() TransactionRecord {
	out := r
	if r.UnitsSold != nil {
		v := *r.UnitsSold
		out.UnitsSold = &v
	}
	if r.Features != nil {
		f := *r.Features
		out.Features = &f
	}
	return out
}

// HasTarget reports whether the row carries an observed Units Sold value
func (r TransactionRecord) HasTarget() bool {
	return r.UnitsSold != nil
}
