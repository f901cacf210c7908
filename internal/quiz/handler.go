package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/auth"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

// URLParamUUID reads a uuid path parameter.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation(name, "must be a valid id")
	}
	return id, nil
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}

	var dto CreateQuizDTO
	if err := config.DecodeJSON(w, r, &dto); err != nil {
		config.Error(w, err)
		return
	}

	q, err := h.service.CreateQuiz(r.Context(), ownerID, dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}

	quizzes, err := h.service.ListQuizzes(r.Context(), ownerID)
	if err != nil {
		config.WithContext(r.Context()).WithError(err).Error("Failed to list quizzes")
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, quizzes)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	detail, err := h.service.GetQuiz(r.Context(), ownerID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, detail)
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	var dto UpdateQuizDTO
	if err := config.DecodeJSON(w, r, &dto); err != nil {
		config.Error(w, err)
		return
	}

	q, err := h.service.UpdateQuiz(r.Context(), ownerID, quizID, dto)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) SetAccepting(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	var dto SetAcceptingDTO
	if err := config.DecodeJSON(w, r, &dto); err != nil {
		config.Error(w, err)
		return
	}

	q, err := h.service.SetAccepting(r.Context(), ownerID, quizID, *dto.AcceptingResponses)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	if err := h.service.DeleteQuiz(r.Context(), ownerID, quizID); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "quiz deleted successfully",
	})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), ownerID, quizID)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, questions)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}

	var in QuestionInput
	if err := config.DecodeJSON(w, r, &in); err != nil {
		config.Error(w, err)
		return
	}

	q, err := h.service.AddQuestion(r.Context(), ownerID, quizID, in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusCreated, q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}
	questionID, err := URLParamUUID(r, "questionID")
	if err != nil {
		config.Error(w, err)
		return
	}

	var in QuestionInput
	if err := config.DecodeJSON(w, r, &in); err != nil {
		config.Error(w, err)
		return
	}

	q, err := h.service.UpdateQuestion(r.Context(), ownerID, quizID, questionID, in)
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	ownerID, err := auth.RequireSubject(r.Context())
	if err != nil {
		config.Error(w, err)
		return
	}
	quizID, err := URLParamUUID(r, "id")
	if err != nil {
		config.Error(w, err)
		return
	}
	questionID, err := URLParamUUID(r, "questionID")
	if err != nil {
		config.Error(w, err)
		return
	}

	if err := h.service.DeleteQuestion(r.Context(), ownerID, quizID, questionID); err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "question removed successfully",
	})
}

func (h *Handler) GetPublicQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetPublicQuiz(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, q)
}

func (h *Handler) ListPublicQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.service.ListPublicQuestions(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		config.Error(w, err)
		return
	}
	config.JSON(w, http.StatusOK, questions)
}
