package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/artifacts"
	"github.com/aristath/retail-insights/internal/modules/model"
)

// SalesCSV is a small dataset in the tabular input format
const SalesCSV = "Date,Category,Inventory Level,Units Sold,Units Ordered,Price,Discount,Promotion,Competitor Pricing\n" +
	"2024-01-02,Groceries,120,170,40,4,10,0,4.5\n" +
	"2024-01-01,Electronics,30,95,10,20,0,1,22\n" +
	"2024-01-01,Groceries,100,185,50,4,0,1,3.8\n" +
	"2024-01-06,Toys,50,140,20,10,0,0,12\n" +
	"2024-01-03,Electronics,28,70,12,24,20,0,22\n" +
	"2024-01-07,Toys,45,160,25,10,50,1,11\n"

// WriteLinearModel writes a linear model artifact (base - slope*price) to dir/name.
// The extension of name selects JSON or msgpack.
func WriteLinearModel(t *testing.T, dir, name string, base, slope float64) string {
	t.Helper()

	coefficients := make([]float64, domain.FeatureCount)
	coefficients[2] = -slope // Price column
	artifact := model.Artifact{
		Kind:     model.KindLinear,
		Features: domain.FeatureNames[:],
		Linear:   &model.Linear{Intercept: base, Coefficients: coefficients},
	}
	return writeArtifact(t, dir, name, artifact)
}

// WriteElasticity writes an elasticity table artifact to dir/name
func WriteElasticity(t *testing.T, dir, name string, values map[string]float64) string {
	t.Helper()
	return writeArtifact(t, dir, name, values)
}

// WriteFile writes content to dir/name and returns the path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func writeArtifact(t *testing.T, dir, name string, v interface{}) string {
	t.Helper()

	format, err := artifacts.FormatOf(name)
	if err != nil {
		t.Fatalf("Bad artifact name %s: %v", name, err)
	}
	data, err := artifacts.Encode(v, format)
	if err != nil {
		t.Fatalf("Failed to encode %s: %v", name, err)
	}
	return WriteFile(t, dir, name, string(data))
}
