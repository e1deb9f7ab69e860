// Package handlers provides HTTP handlers for demand prediction and forecasting.
package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/metrics"
	"github.com/aristath/retail-insights/internal/modules/forecasting"
	"github.com/aristath/retail-insights/internal/utils"
	"github.com/rs/zerolog"
)

// maxPredictBody caps the /predict request size
const maxPredictBody = 64 << 10

// RecordSource provides the current dataset rows
type RecordSource interface {
	Filter(category string) []domain.TransactionRecord
}

// Handler handles prediction and forecast HTTP requests
type Handler struct {
	service       *forecasting.Service
	records       RecordSource
	defaultWindow int
	metrics       *metrics.Metrics
	log           zerolog.Logger
}

// NewHandler creates a new forecasting handler
func NewHandler(
	service *forecasting.Service,
	records RecordSource,
	defaultWindow int,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		service:       service,
		records:       records,
		defaultWindow: defaultWindow,
		metrics:       m,
		log:           log.With().Str("handler", "forecasting").Logger(),
	}
}

// PredictResponse is the body returned by POST /predict
type PredictResponse struct {
	PredictedUnitsSold float64 `json:"predicted_units_sold"`
}

// ForecastResponse is the body returned by GET /api/forecast
type ForecastResponse struct {
	Category string                   `json:"category,omitempty"`
	Rows     int                      `json:"rows"`
	Window   int                      `json:"window"`
	Points   []forecasting.DailyPoint `json:"points"`
	Accuracy forecasting.Accuracy     `json:"accuracy"`
}

// HandlePredict handles POST /predict
// The body must be a flat JSON object with exactly the 12 model feature names as keys
func (h *Handler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	values, err := decodeFeatures(http.MaxBytesReader(w, r.Body, maxPredictBody))
	if err != nil {
		h.writeError(w, err)
		return
	}

	prediction, err := h.service.PredictFeatures(values)
	h.metrics.AddPredictions("predict", 1, err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, PredictResponse{PredictedUnitsSold: prediction})
}

// HandleForecast handles GET /api/forecast?category=&window=
// Scores the dataset (optionally one category) and returns the daily projection
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	defer utils.OperationTimer("forecast", h.log)()

	category := r.URL.Query().Get("category")
	window := h.defaultWindow
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, &domain.MissingFieldError{Field: "window"})
			return
		}
		window = parsed
	}

	records := h.records.Filter(category)
	if category != "" && len(records) == 0 {
		h.writeError(w, &domain.EmptyCategoryError{Category: category})
		return
	}

	predictions, err := h.service.Forecast(records)
	h.metrics.AddPredictions("forecast", len(records), err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	points, err := forecasting.Projection(records, predictions, window)
	if err != nil {
		h.writeError(w, err)
		return
	}
	accuracy, err := forecasting.Evaluate(records, predictions)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ForecastResponse{
		Category: category,
		Rows:     len(records),
		Window:   window,
		Points:   points,
		Accuracy: accuracy,
	})
}

// decodeFeatures reads a flat JSON object. Values that are not plain numbers are
// kept as NaN so features.FromMap reports unknown keys before bad values.
func decodeFeatures(body io.Reader) (map[string]float64, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &domain.MissingFieldError{Field: "body"}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, &domain.MissingFieldError{Field: "body"}
	}

	values := make(map[string]float64, len(raw))
	for key, msg := range raw {
		values[key] = parseNumber(msg)
	}
	return values, nil
}

func parseNumber(msg json.RawMessage) float64 {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return math.NaN()
	}
	num, ok := v.(json.Number)
	if !ok {
		return math.NaN()
	}
	f, err := num.Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := utils.StatusForError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Int("status", status).Msg("Request failed")
	} else {
		h.log.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
