package quiz

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the owner endpoints. The caller must already be behind auth.AuthMiddleware.
func Routes(r chi.Router, h *Handler) {
	r.Post("/", h.CreateQuiz)
	r.Get("/", h.ListQuizzes)
	r.Get("/{id}", h.GetQuiz)
	r.Put("/{id}", h.UpdateQuiz)
	r.Delete("/{id}", h.DeleteQuiz)
	r.Patch("/{id}/accepting", h.SetAccepting)

	r.Get("/{id}/questions", h.ListQuestions)
	r.Post("/{id}/questions", h.AddQuestion)
	r.Put("/{id}/questions/{questionID}", h.UpdateQuestion)
	r.Delete("/{id}/questions/{questionID}", h.DeleteQuestion)
}

// PublicRoutes mounts the taker endpoints under /f/{slug}.
func PublicRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.GetPublicQuiz)
	r.Get("/questions", h.ListPublicQuestions)
}
