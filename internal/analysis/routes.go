package analysis

import (
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler) {
	r.Post("/{id}/analysis", h.Generate)
	r.Get("/{id}/analysis", h.Get)
	r.Delete("/{id}/analysis", h.Delete)
}
