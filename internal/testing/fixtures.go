package testing

import (
	"time"

	"github.com/aristath/retail-insights/internal/domain"
)

// Day parses a YYYY-MM-DD date and panics on malformed input
func Day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Units returns a pointer for the optional Units Sold target
func Units(v float64) *float64 {
	return &v
}

// NewRecordFixtures returns a small multi-category history, unsorted by date
func NewRecordFixtures() []domain.TransactionRecord {
	return []domain.TransactionRecord{
		{Date: Day("2024-01-02"), Category: "Groceries", InventoryLevel: 120, UnitsOrdered: 40, Price: 4, Discount: 10, Promotion: 0, CompetitorPrice: 4.5, UnitsSold: Units(170)},
		{Date: Day("2024-01-01"), Category: "Electronics", InventoryLevel: 30, UnitsOrdered: 10, Price: 20, Discount: 0, Promotion: 1, CompetitorPrice: 22, UnitsSold: Units(95)},
		{Date: Day("2024-01-01"), Category: "Groceries", InventoryLevel: 100, UnitsOrdered: 50, Price: 4, Discount: 0, Promotion: 1, CompetitorPrice: 3.8, UnitsSold: Units(185)},
		{Date: Day("2024-01-06"), Category: "Toys", InventoryLevel: 50, UnitsOrdered: 20, Price: 10, Discount: 0, Promotion: 0, CompetitorPrice: 12, UnitsSold: Units(140)},
		{Date: Day("2024-01-03"), Category: "Electronics", InventoryLevel: 28, UnitsOrdered: 12, Price: 24, Discount: 20, Promotion: 0, CompetitorPrice: 22, UnitsSold: Units(70)},
		{Date: Day("2024-01-07"), Category: "Toys", InventoryLevel: 45, UnitsOrdered: 25, Price: 10, Discount: 50, Promotion: 1, CompetitorPrice: 11, UnitsSold: Units(160)},
	}
}
