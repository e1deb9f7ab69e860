// Package handlers provides HTTP handlers for the elasticity table.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/retail-insights/internal/modules/elasticity"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the precomputed elasticity table
type Handler struct {
	table *elasticity.Table
	log   zerolog.Logger
}

// NewHandler creates a new elasticity handler
func NewHandler(table *elasticity.Table, log zerolog.Logger) *Handler {
	return &Handler{
		table: table,
		log:   log.With().Str("handler", "elasticity").Logger(),
	}
}

// HandleGetElasticity handles GET /api/elasticity
func (h *Handler) HandleGetElasticity(w http.ResponseWriter, r *http.Request) {
	if h.table == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "elasticity table not loaded"})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":  h.table.Source(),
		"entries": h.table.Entries(),
	})
}

// RegisterRoutes registers the elasticity routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/elasticity", h.HandleGetElasticity)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
