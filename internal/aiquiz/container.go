package aiquiz

import (
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	"github.com/saulo-duarte/quizforge-lambda/internal/storage"
)

type AIQuizContainer struct {
	Handler *Handler
}

func NewAIQuizContainer(quizzes *quiz.QuizContainer, gate ratelimit.Gate, model llm.Client, store storage.Store) *AIQuizContainer {
	service := NewService(quizzes.Service, quizzes.Guard, gate, model, store)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
	}
}
