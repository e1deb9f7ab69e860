package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/features"
	"github.com/aristath/retail-insights/internal/modules/forecasting"
	"github.com/aristath/retail-insights/internal/modules/scenarios"
	testingpkg "github.com/aristath/retail-insights/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRecords []domain.TransactionRecord

func (s staticRecords) Records() []domain.TransactionRecord {
	out := make([]domain.TransactionRecord, len(s))
	copy(out, s)
	return out
}

func setupRouter(t *testing.T, predictor *testingpkg.MockPredictor) (*chi.Mux, *scenarios.Repository) {
	t.Helper()
	logger := zerolog.New(nil).Level(zerolog.Disabled)

	records, err := features.Derive(testingpkg.NewRecordFixtures())
	require.NoError(t, err)

	db := testingpkg.NewTestDB(t, "analytics")
	repo := scenarios.NewRepository(db.Conn(), logger)
	simulator := scenarios.NewSimulator(forecasting.NewService(predictor, logger), logger)
	handler := NewHandler(simulator, staticRecords(records), repo, "models/test.json", nil, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, repo
}

func do(router http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleSimulate(t *testing.T) {
	router, repo := setupRouter(t, testingpkg.NewMockPredictor())

	w := do(router, "POST", "/scenarios/simulate", `{"category": "Toys", "new_price": 5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var run scenarios.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "Toys", run.Category)
	assert.InDelta(t, 150.0, run.OldDemand, 1e-9)
	assert.InDelta(t, 175.0, run.NewDemand, 1e-9)
	assert.InDelta(t, 50.0/3.0, run.PctChange, 1e-9)
	assert.Equal(t, "models/test.json", run.ModelSource)

	stored, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, run.ID, stored[0].ID)
}

func TestHandleSimulate_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty category", `{"category": "Garden", "new_price": 5}`, http.StatusNotFound},
		{"missing price", `{"category": "Toys"}`, http.StatusBadRequest},
		{"missing category", `{"new_price": 5}`, http.StatusBadRequest},
		{"unknown field", `{"category": "Toys", "new_price": 5, "discount": 10}`, http.StatusBadRequest},
		{"string price", `{"category": "Toys", "new_price": "5"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := setupRouter(t, testingpkg.NewMockPredictor())

			w := do(router, "POST", "/scenarios/simulate", tt.body)
			assert.Equal(t, tt.want, w.Code)

			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response["error"])

			runs, err := repo.List(0)
			require.NoError(t, err)
			assert.Empty(t, runs)
		})
	}
}

func TestHandleSimulate_ZeroBaseline(t *testing.T) {
	router, _ := setupRouter(t, &testingpkg.MockPredictor{})

	w := do(router, "POST", "/scenarios/simulate", `{"category": "Toys", "new_price": 5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandleCurve(t *testing.T) {
	router, _ := setupRouter(t, testingpkg.NewMockPredictor())

	w := do(router, "GET", "/scenarios/curve?category=Toys&prices=5,10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var curve scenarios.Curve
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &curve))
	require.Len(t, curve.Points, 2)
	assert.Equal(t, 5.0, curve.Points[0].Price)
	assert.InDelta(t, 0.0, curve.Points[1].PctChange, 1e-9)
}

func TestHandleCurve_DefaultRange(t *testing.T) {
	router, _ := setupRouter(t, testingpkg.NewMockPredictor())

	w := do(router, "GET", "/scenarios/curve?category=Toys", "")
	require.Equal(t, http.StatusOK, w.Code)

	var curve scenarios.Curve
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &curve))
	// Toys mean price 10: 5.00 .. 15.00 in 0.25 steps
	require.Len(t, curve.Points, 41)
	assert.Equal(t, 5.0, curve.Points[0].Price)
	assert.InDelta(t, 15.0, curve.Points[40].Price, 1e-9)
}

func TestHandleCurve_BadInput(t *testing.T) {
	router, _ := setupRouter(t, testingpkg.NewMockPredictor())

	assert.Equal(t, http.StatusBadRequest, do(router, "GET", "/scenarios/curve", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, "GET", "/scenarios/curve?category=Toys&prices=cheap", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, "GET", "/scenarios/curve?category=Garden", "").Code)
}

func TestHandleCurve_TooManyPrices(t *testing.T) {
	predictor := testingpkg.NewMockPredictor()
	router, _ := setupRouter(t, predictor)

	prices := make([]string, maxCurvePoints+1)
	for i := range prices {
		prices[i] = strconv.Itoa(i + 1)
	}
	w := do(router, "GET", "/scenarios/curve?category=Toys&prices="+strings.Join(prices, ","), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "prices")
	assert.Equal(t, 0, predictor.Calls())

	w = do(router, "GET", "/scenarios/curve?category=Toys&prices="+strings.Join(prices[:maxCurvePoints], ","), "")
	require.Equal(t, http.StatusOK, w.Code)
	var curve scenarios.Curve
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &curve))
	assert.Len(t, curve.Points, maxCurvePoints)
}

func TestHandleRange(t *testing.T) {
	router, _ := setupRouter(t, testingpkg.NewMockPredictor())

	w := do(router, "GET", "/scenarios/range?category=Groceries", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"category":"Groceries","mean":4,"min":2,"max":6,"step":0.25}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(router, "GET", "/scenarios/range?category=Garden", "").Code)
}

func TestHandleRuns(t *testing.T) {
	router, _ := setupRouter(t, testingpkg.NewMockPredictor())

	for _, body := range []string{
		`{"category": "Toys", "new_price": 5}`,
		`{"category": "Groceries", "new_price": 3}`,
	} {
		require.Equal(t, http.StatusOK, do(router, "POST", "/scenarios/simulate", body).Code)
	}

	w := do(router, "GET", "/scenarios/runs?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Runs  []scenarios.Run `json:"runs"`
		Count int             `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "Groceries", response.Runs[0].Category)

	w = do(router, "GET", "/scenarios/runs/"+response.Runs[0].ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNotFound, do(router, "GET", "/scenarios/runs/does-not-exist", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, "GET", "/scenarios/runs?limit=-1", "").Code)
}
