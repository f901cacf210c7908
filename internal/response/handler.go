package response

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type Handler struct {
	service ResponseService
}

func NewHandler(s ResponseService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.service.StartSession(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, ticket)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var dto SubmitResponseDTO
	if err := config.DecodeJSON(w, r, &dto); err != nil {
		config.Error(w, err)
		return
	}

	result, err := h.service.Submit(r.Context(), chi.URLParam(r, "slug"), dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, result)
}

func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := quiz.URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	responses, err := h.service.ListResponses(r.Context(), ownerID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, responses)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := quiz.URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	results, err := h.service.Results(r.Context(), ownerID, quizID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to compute results")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, results)
}
