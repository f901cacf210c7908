package aiquiz

import (
	"net/http"

	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	requester, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := quiz.URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	var req GenerateRequest
	if err := config.DecodeJSON(w, r, &req); err != nil {
		config.Error(w, err)
		return
	}

	result, err := h.service.GenerateQuestions(r.Context(), requester, quizID, req)
	if err != nil {
		log.WithError(err).Error("Failed to generate questions")
		config.Error(w, err)
		return
	}

	config.JSON(w, http.StatusCreated, result)
}
