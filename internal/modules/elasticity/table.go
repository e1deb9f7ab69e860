// Package elasticity holds the precomputed per-category price elasticity table.
// The values are produced offline and are shown for reference only.
package elasticity

import (
	"context"
	"fmt"
	"sort"

	"github.com/aristath/retail-insights/internal/modules/artifacts"
	"github.com/rs/zerolog"
)

// Entry is one row of the elasticity table
type Entry struct {
	Category   string  `json:"category"`
	Elasticity float64 `json:"elasticity"`
}

// Table maps category name to elasticity coefficient. It is immutable after load.
type Table struct {
	values map[string]float64
	source string
}

// NewTable builds a table from an in-memory mapping. The map is copied.
func NewTable(values map[string]float64, source string) *Table {
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Table{values: copied, source: source}
}

// Load decodes the table stored at location (JSON or msgpack object of category -> coefficient)
func Load(ctx context.Context, source *artifacts.Source, location string, log zerolog.Logger) (*Table, error) {
	var values map[string]float64
	if err := source.Load(ctx, location, &values); err != nil {
		return nil, fmt.Errorf("failed to load elasticity table: %w", err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("elasticity table %s is empty", location)
	}

	log.Info().
		Str("component", "elasticity").
		Str("location", location).
		Int("categories", len(values)).
		Msg("Elasticity table loaded")

	return NewTable(values, location), nil
}

// Get returns the coefficient for category
func (t *Table) Get(category string) (float64, bool) {
	v, ok := t.values[category]
	return v, ok
}

// Entries returns every row sorted by category
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.values))
	for category, v := range t.values {
		entries = append(entries, Entry{Category: category, Elasticity: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Category < entries[j].Category
	})
	return entries
}

// Source returns where the table was loaded from
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of categories
func (t *Table) Len() int {
	return len(t.values)
}
