package quiz

import (
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
)

type QuizContainer struct {
	Repository QuizRepository
	Service    QuizService
	Guard      *Guard
	Handler    *Handler
}

func NewQuizContainer(repo QuizRepository, gate ratelimit.Gate, responses ResponseCounter) *QuizContainer {
	service := NewService(repo, gate, responses)
	handler := NewHandler(service)

	return &QuizContainer{
		Repository: repo,
		Service:    service,
		Guard:      NewGuard(repo),
		Handler:    handler,
	}
}
