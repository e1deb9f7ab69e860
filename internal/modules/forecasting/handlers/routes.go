package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the forecast routes under the /api router.
// POST /predict is mounted at the root by the server so it can carry its own rate limit.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/forecast", h.HandleForecast)
}
