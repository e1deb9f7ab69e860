// Package handlers provides HTTP handlers for what-if price scenarios.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/metrics"
	"github.com/aristath/retail-insights/internal/modules/scenarios"
	"github.com/aristath/retail-insights/internal/utils"
	"github.com/rs/zerolog"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 200
	maxCurvePoints   = 81
)

// RecordSource provides the current dataset rows
type RecordSource interface {
	Records() []domain.TransactionRecord
}

// RunStore persists scenario runs
type RunStore interface {
	Save(result scenarios.Result, modelSource string) (*scenarios.Run, error)
	List(limit int) ([]scenarios.Run, error)
	Get(id string) (*scenarios.Run, error)
}

// Handler handles scenario HTTP requests
type Handler struct {
	simulator   *scenarios.Simulator
	records     RecordSource
	runs        RunStore
	modelSource string
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewHandler creates a new scenarios handler. runs may be nil to disable history.
func NewHandler(
	simulator *scenarios.Simulator,
	records RecordSource,
	runs RunStore,
	modelSource string,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		simulator:   simulator,
		records:     records,
		runs:        runs,
		modelSource: modelSource,
		metrics:     m,
		log:         log.With().Str("handler", "scenarios").Logger(),
	}
}

// SimulateRequest is the body of POST /api/scenarios/simulate
type SimulateRequest struct {
	Category string   `json:"category"`
	NewPrice *float64 `json:"new_price"`
}

// HandleSimulate handles POST /api/scenarios/simulate
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, &domain.MissingFieldError{Field: "body"})
		return
	}
	if req.Category == "" {
		h.writeError(w, &domain.MissingFieldError{Field: "category"})
		return
	}
	if req.NewPrice == nil {
		h.writeError(w, &domain.MissingFieldError{Field: "new_price"})
		return
	}

	result, err := h.simulator.Simulate(h.records.Records(), req.Category, *req.NewPrice)
	h.metrics.IncScenario(err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	run := &scenarios.Run{Result: *result, ModelSource: h.modelSource}
	if h.runs != nil {
		saved, err := h.runs.Save(*result, h.modelSource)
		if err != nil {
			h.log.Warn().Err(err).Str("category", req.Category).Msg("Failed to record scenario run")
		} else {
			run = saved
		}
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleCurve handles GET /api/scenarios/curve?category=&prices=
// Without prices the category's default slider range is used. More than
// maxCurvePoints prices is rejected.
func (h *Handler) HandleCurve(w http.ResponseWriter, r *http.Request) {
	defer utils.OperationTimer("scenario_curve", h.log)()

	category := r.URL.Query().Get("category")
	if category == "" {
		h.writeError(w, &domain.MissingFieldError{Field: "category"})
		return
	}

	records := h.records.Records()
	prices, err := utils.ParseFloats(r.URL.Query().Get("prices"))
	if err != nil {
		h.writeError(w, &domain.MissingFieldError{Field: "prices"})
		return
	}
	if len(prices) > maxCurvePoints {
		h.writeError(w, &domain.MissingFieldError{Field: "prices"})
		return
	}
	if len(prices) == 0 {
		rng, err := scenarios.RangeFor(records, category)
		if err != nil {
			h.writeError(w, err)
			return
		}
		prices = rng.Points(maxCurvePoints)
	}

	curve, err := h.simulator.Curve(records, category, prices)
	h.metrics.IncScenario(err)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, curve)
}

// HandleRange handles GET /api/scenarios/range?category=
func (h *Handler) HandleRange(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		h.writeError(w, &domain.MissingFieldError{Field: "category"})
		return
	}

	rng, err := scenarios.RangeFor(h.records.Records(), category)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rng)
}

// HandleListRuns handles GET /api/scenarios/runs?limit=
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, &domain.MissingFieldError{Field: "limit"})
			return
		}
		limit = parsed
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs := []scenarios.Run{}
	if h.runs != nil {
		var err error
		if runs, err = h.runs.List(limit); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

// HandleGetRun handles GET /api/scenarios/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request, id string) {
	if h.runs == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "scenario history is disabled"})
		return
	}

	run, err := h.runs.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if run == nil {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "scenario run not found"})
		return
	}
	h.writeJSON(w, http.StatusOK, run)
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
