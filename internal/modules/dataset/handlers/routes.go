package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all dataset explorer routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dataset", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/categories", h.HandleCategories)
		r.Get("/distribution", h.HandleDistribution)
		r.Get("/snapshot", h.HandleSnapshot)
		r.Post("/reload", h.HandleReload)
	})
}
