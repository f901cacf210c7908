package analysis

import (
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
)

type AnalysisContainer struct {
	Handler *Handler
}

func NewAnalysisContainer(repo AnalysisRepository, quizzes *quiz.QuizContainer, responses *response.ResponseContainer, gate ratelimit.Gate, model llm.Client) *AnalysisContainer {
	service := NewService(repo, quizzes.Service, responses.Repository, gate, model)
	handler := NewHandler(service)

	return &AnalysisContainer{
		Handler: handler,
	}
}
