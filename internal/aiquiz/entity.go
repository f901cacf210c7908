package aiquiz

import (
	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

const (
	MinQuestions = 1
	MaxQuestions = 50
)

// Candidate is one question object as the model writes it. Nothing in it is trusted.
type Candidate struct {
	Question      string   `json:"question"`
	SelectOptions []string `json:"selectOptions"`
	Answer        string   `json:"answer"`
}

// GenerateRequest names exactly one content source: an uploaded file owned by the requester or a URL.
type GenerateRequest struct {
	FileRef string `json:"file_ref" validate:"required_without=URL,excluded_with=URL"`
	URL     string `json:"url" validate:"omitempty,http_url"`
	Count   int    `json:"count" validate:"required,min=1,max=50"`
}

type GenerateResult struct {
	QuizID    uuid.UUID        `json:"quiz_id"`
	Created   int              `json:"created"`
	Rejected  int              `json:"rejected"`
	Questions []*quiz.Question `json:"questions"`
}
