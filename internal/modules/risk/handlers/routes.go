package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all Monte Carlo risk routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/risk", func(r chi.Router) {
		r.Route("/monte-carlo", func(r chi.Router) {
			r.Post("/var", h.HandleCalculateVaR)
			r.Post("/stress-test", h.HandleStressTest)
			r.Get("/processes", h.HandleListProcesses)
		})
	})
}
