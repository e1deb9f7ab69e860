package dataset

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/features"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// Reader fetches raw dataset bytes from a local path or object storage
type Reader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

// Snapshot describes the currently loaded dataset
type Snapshot struct {
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	Categories int       `json:"categories"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// CategorySummary is one entry of the category list
type CategorySummary struct {
	Name      string  `json:"name"`
	Rows      int     `json:"rows"`
	MeanPrice float64 `json:"mean_price"`
}

// Page is a window of rows for the explorer
type Page struct {
	Total   int                        `json:"total"`
	Offset  int                        `json:"offset"`
	Limit   int                        `json:"limit"`
	Records []domain.TransactionRecord `json:"records"`
}

// Distribution summarises observed Units Sold
type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
}

// Store holds the derived, date-sorted dataset. Reload swaps the whole snapshot
// under the write lock; readers always see one consistent version.
type Store struct {
	reader   Reader
	location string
	log      zerolog.Logger

	mu       sync.RWMutex
	records  []domain.TransactionRecord
	loadedAt time.Time
}

// NewStore creates an empty store that loads from location on Reload
func NewStore(reader Reader, location string, log zerolog.Logger) *Store {
	return &Store{
		reader:   reader,
		location: location,
		log:      log.With().Str("component", "dataset_store").Logger(),
	}
}

// Reload re-reads the dataset and replaces the snapshot. On failure the previous
// snapshot stays in place.
func (s *Store) Reload(ctx context.Context) error {
	start := time.Now()

	data, err := s.reader.Read(ctx, s.location)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	raw, err := LoadCSV(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse dataset %s: %w", s.location, err)
	}
	derived, err := features.Derive(raw)
	if err != nil {
		return fmt.Errorf("failed to derive features for %s: %w", s.location, err)
	}

	s.mu.Lock()
	s.records = derived
	s.loadedAt = time.Now().UTC()
	s.mu.Unlock()

	s.log.Info().
		Str("location", s.location).
		Int("rows", len(derived)).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")
	return nil
}

// Loaded reports whether a snapshot is available
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records != nil
}

// Snapshot returns metadata about the current snapshot
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make(map[string]struct{})
	for _, rec := range s.records {
		categories[rec.Category] = struct{}{}
	}
	return Snapshot{
		Source:     s.location,
		Rows:       len(s.records),
		Categories: len(categories),
		LoadedAt:   s.loadedAt,
	}
}

// Records returns the current rows sorted by date. The slice is a copy; the
// derived features it points to are shared and must be treated as read-only.
func (s *Store) Records() []domain.TransactionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Filter returns the rows of one category, or every row when category is empty
func (s *Store) Filter(category string) []domain.TransactionRecord {
	if category == "" {
		return s.Records()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.TransactionRecord
	for _, rec := range s.records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// Categories lists every category with its row count and mean price, sorted by name
func (s *Store) Categories() []CategorySummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		rows  int
		price float64
	}
	byName := make(map[string]*acc)
	for _, rec := range s.records {
		a, ok := byName[rec.Category]
		if !ok {
			a = &acc{}
			byName[rec.Category] = a
		}
		a.rows++
		a.price += rec.Price
	}

	out := make([]CategorySummary, 0, len(byName))
	for name, a := range byName {
		out = append(out, CategorySummary{Name: name, Rows: a.rows, MeanPrice: a.price / float64(a.rows)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Page returns rows [offset, offset+limit) of the (optionally filtered) dataset
func (s *Store) Page(category string, offset, limit int) Page {
	rows := s.Filter(category)
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	page := Page{Total: len(rows), Offset: offset, Limit: limit, Records: []domain.TransactionRecord{}}
	if offset >= len(rows) {
		return page
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	page.Records = rows[offset:end]
	return page
}

// Distribution summarises Units Sold over the rows that carry it.
// An empty category filter covers the whole dataset.
func (s *Store) Distribution(category string) Distribution {
	var values []float64
	for _, rec := range s.Filter(category) {
		if rec.UnitsSold != nil {
			values = append(values, *rec.UnitsSold)
		}
	}
	return summarize(values)
}

func summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sort.Float64s(values)
	return Distribution{
		Count:  len(values),
		Min:    values[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, values, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, values, nil),
		Max:    values[len(values)-1],
		Mean:   stat.Mean(values, nil),
	}
}
