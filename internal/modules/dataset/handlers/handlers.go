// Package handlers provides HTTP handlers for the dataset explorer.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aristath/retail-insights/internal/domain"
	"github.com/aristath/retail-insights/internal/metrics"
	"github.com/aristath/retail-insights/internal/modules/dataset"
	"github.com/aristath/retail-insights/internal/utils"
	"github.com/rs/zerolog"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 1000
)

// Handler handles dataset explorer HTTP requests
type Handler struct {
	store   *dataset.Store
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewHandler creates a new dataset handler
func NewHandler(store *dataset.Store, m *metrics.Metrics, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		metrics: m,
		log:     log.With().Str("handler", "dataset").Logger(),
	}
}

// HandleList handles GET /api/dataset?category=&offset=&limit=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	offset, err := intParam(query.Get("offset"), 0, "offset")
	if err != nil {
		h.writeError(w, err)
		return
	}
	limit, err := intParam(query.Get("limit"), defaultPageLimit, "limit")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	h.writeJSON(w, http.StatusOK, h.store.Page(query.Get("category"), offset, limit))
}

// HandleCategories handles GET /api/dataset/categories
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.store.Categories(),
	})
}

// HandleDistribution handles GET /api/dataset/distribution?category=
func (h *Handler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && len(h.store.Filter(category)) == 0 {
		h.writeError(w, &domain.EmptyCategoryError{Category: category})
		return
	}
	h.writeJSON(w, http.StatusOK, h.store.Distribution(category))
}

// HandleSnapshot handles GET /api/dataset/snapshot
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// HandleReload handles POST /api/dataset/reload
func (h *Handler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}

	snapshot := h.store.Snapshot()
	h.metrics.SetDatasetRows(snapshot.Rows)
	h.log.Info().Int("rows", snapshot.Rows).Msg("Dataset reloaded on request")
	h.writeJSON(w, http.StatusOK, snapshot)
}

func intParam(raw string, def int, name string) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, &domain.MissingFieldError{Field: name}
	}
	return v, nil
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
