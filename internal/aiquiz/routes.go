package aiquiz

import (
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler) {
	r.Post("/{id}/generate", h.GenerateQuestions)
}
