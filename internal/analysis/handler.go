package analysis

import (
	"net/http"

	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type Handler struct {
	service AnalysisService
}

func NewHandler(s AnalysisService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.service.Generate(r.Context(), ownerID, quizID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to generate analysis")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, a)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.service.Get(r.Context(), ownerID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), ownerID, quizID); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "analysis deleted successfully",
	})
}
