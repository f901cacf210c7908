package response

import (
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler) {
	r.Get("/{id}/responses", h.ListResponses)
	r.Get("/{id}/results", h.Results)
}

// PublicRoutes mounts the taker endpoints under /f/{slug}.
func PublicRoutes(r chi.Router, h *Handler) {
	r.Post("/sessions", h.StartSession)
	r.Post("/responses", h.Submit)
}
