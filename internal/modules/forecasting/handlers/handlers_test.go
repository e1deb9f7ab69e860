package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/modules/forecasting"
	"github.com/aristath/retail-insights/internal/modules/model"
	testingpkg "github.com/aristath/retail-insights/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticRecords []domain.TransactionRecord

func (s staticRecords) Filter(category string) []domain.TransactionRecord {
	var out []domain.TransactionRecord
	for _, rec := range s {
		if category == "" || rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

func newTestHandler(predictor *testingpkg.MockPredictor) *Handler {
	logger := zerolog.New(nil).Level(zerolog.Disabled)
	adapter := model.NewAdapter(predictor, model.Info{Kind: "mock"}, logger)
	service := forecasting.NewService(adapter, logger)
	return NewHandler(service, staticRecords(testingpkg.NewRecordFixtures()), 1, nil, logger)
}

func validPredictBody() map[string]interface{} {
	body := make(map[string]interface{})
	for _, name := range domain.FeatureNames {
		body[name] = 0
	}
	body[domain.FeaturePrice] = 10
	body[domain.FeaturePromotion] = 1
	return body
}

func encode(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestHandlePredict(t *testing.T) {
	handler := newTestHandler(testingpkg.NewMockPredictor())

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(encode(t, validPredictBody())))
	w := httptest.NewRecorder()
	handler.HandlePredict(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"predicted_units_sold": 150}`, w.Body.String())
}

func TestHandlePredict_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		body      func() string
		wantError string
	}{
		{
			name: "unknown key",
			body: func() string {
				b := validPredictBody()
				b["Store ID"] = 3
				return encode(t, b)
			},
			wantError: `unknown field "Store ID"`,
		},
		{
			name: "missing key",
			body: func() string {
				b := validPredictBody()
				delete(b, domain.FeatureWeekend)
				return encode(t, b)
			},
			wantError: `missing or non-numeric field "weekend"`,
		},
		{
			name: "string value",
			body: func() string {
				b := validPredictBody()
				b[domain.FeatureDiscount] = "10"
				return encode(t, b)
			},
			wantError: `missing or non-numeric field "Discount"`,
		},
		{
			name: "null value",
			body: func() string {
				b := validPredictBody()
				b[domain.FeatureDay] = nil
				return encode(t, b)
			},
			wantError: `missing or non-numeric field "day"`,
		},
		{
			name:      "not an object",
			body:      func() string { return `[1, 2, 3]` },
			wantError: `missing or non-numeric field "body"`,
		},
		{
			name:      "malformed",
			body:      func() string { return `{"Price": ` },
			wantError: `missing or non-numeric field "body"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := testingpkg.NewMockPredictor()
			handler := newTestHandler(predictor)

			req := httptest.NewRequest("POST", "/predict", strings.NewReader(tt.body()))
			w := httptest.NewRecorder()
			handler.HandlePredict(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantError, response["error"])
			assert.Equal(t, 0, predictor.Calls())
		})
	}
}

func TestHandlePredict_ModelFailure(t *testing.T) {
	predictor := testingpkg.NewMockPredictor()
	predictor.SetError(errors.New("tree index out of range"))
	handler := newTestHandler(predictor)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(encode(t, validPredictBody())))
	w := httptest.NewRecorder()
	handler.HandlePredict(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "tree index out of range")
}

func TestHandleForecast(t *testing.T) {
	handler := newTestHandler(testingpkg.NewMockPredictor())

	req := httptest.NewRequest("GET", "/api/forecast?category=Groceries", nil)
	w := httptest.NewRecorder()
	handler.HandleForecast(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "Groceries", response.Category)
	assert.Equal(t, 2, response.Rows)
	require.Len(t, response.Points, 2)
	assert.Equal(t, "2024-01-01", response.Points[0].Date)
	assert.Equal(t, 180.0, response.Points[0].Predicted)
	assert.Equal(t, 185.0, *response.Points[0].Actual)
	assert.Equal(t, 2, response.Accuracy.Rows)
	assert.InDelta(t, 7.5, response.Accuracy.MAE, 1e-9) // |180-185|, |180-170|
}

func TestHandleForecast_Window(t *testing.T) {
	handler := newTestHandler(testingpkg.NewMockPredictor())

	req := httptest.NewRequest("GET", "/api/forecast?window=2", nil)
	w := httptest.NewRecorder()
	handler.HandleForecast(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response ForecastResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Window)
	assert.Equal(t, 6, response.Rows)
	require.Len(t, response.Points, 5)
	assert.Nil(t, response.Points[0].Smoothed)
	assert.NotNil(t, response.Points[1].Smoothed)
}

func TestHandleForecast_Errors(t *testing.T) {
	handler := newTestHandler(testingpkg.NewMockPredictor())

	tests := []struct {
		url  string
		want int
	}{
		{"/api/forecast?category=Garden", http.StatusNotFound},
		{"/api/forecast?window=0", http.StatusBadRequest},
		{"/api/forecast?window=week", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.HandleForecast(w, httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterRoutes(t *testing.T) {
	handler := newTestHandler(testingpkg.NewMockPredictor())
	router := chi.NewRouter()

	assert.NotPanics(t, func() {
		handler.RegisterRoutes(router)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/forecast", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
