package scenarios

import (
	"math"

	"github.com/aristath/retail-insights/internal/domain"
)

// Slider bounds relative to the category's mean price
const (
	RangeLowFactor  = 0.5
	RangeHighFactor = 1.5
	RangeStep       = 0.25
)

// PriceRange describes the adjustable price interval for a category
type PriceRange struct {
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Step     float64 `json:"step"`
}

// RangeFor returns the price interval offered for category: 0.5x to 1.5x of its mean price
func RangeFor(records []domain.TransactionRecord, category string) (*PriceRange, error) {
	var sum float64
	var n int
	for _, rec := range records {
		if rec.Category != category {
			continue
		}
		sum += rec.Price
		n++
	}
	if n == 0 {
		return nil, &domain.EmptyCategoryError{Category: category}
	}

	mean := sum / float64(n)
	return &PriceRange{
		Category: category,
		Mean:     mean,
		Min:      mean * RangeLowFactor,
		Max:      mean * RangeHighFactor,
		Step:     RangeStep,
	}, nil
}

// maxRangePoints bounds Points when the caller passes no limit
const maxRangePoints = 10000

// Points enumerates the range at Step increments, always including Min and Max.
// At most limit points are produced (limit <= 0 means maxRangePoints). When the
// steps do not fit, the step is widened so the points still span Min to Max.
func (r *PriceRange) Points(limit int) []float64 {
	if limit <= 0 || limit > maxRangePoints {
		limit = maxRangePoints
	}
	span := r.Max - r.Min
	if r.Step <= 0 || !finite(span) || span <= 0 || limit == 1 {
		return []float64{r.Min}
	}

	// counted in float64 so huge spans cannot overflow the int conversion
	steps := math.Floor(span / r.Step)
	count := steps + 1
	if r.Max-(r.Min+steps*r.Step) > 1e-9 {
		count++ // Max is appended after the last full step
	}

	if count > float64(limit) {
		step := span / float64(limit-1)
		points := make([]float64, limit)
		for i := range points {
			points[i] = r.Min + float64(i)*step
		}
		points[limit-1] = r.Max
		return points
	}

	n := int(steps) + 1
	points := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		points = append(points, r.Min+float64(i)*r.Step)
	}
	if r.Max-points[n-1] > 1e-9 {
		points = append(points, r.Max)
	}
	return points
}
