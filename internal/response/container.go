package response

import (
	"time"

	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type ResponseContainer struct {
	Repository ResponseRepository
	Service    ResponseService
	Handler    *Handler
}

func NewResponseContainer(repo ResponseRepository, quizzes *quiz.QuizContainer, grace time.Duration) *ResponseContainer {
	service := NewService(repo, quizzes.Service, grace)
	handler := NewHandler(service)

	return &ResponseContainer{
		Repository: repo,
		Service:    service,
		Handler:    handler,
	}
}
