package response

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
)

type AnswerInput struct {
	QuestionID     uuid.UUID `json:"question_id" validate:"required"`
	SelectedOption string    `json:"selected_option" validate:"required,max=500"`
}

// SubmitResponseDTO is what a taker sends. StartedAt is only trusted when no session token is given.
type SubmitResponseDTO struct {
	Answers      []AnswerInput `json:"answers" validate:"required,max=200,dive"`
	SessionToken string        `json:"session_token"`
	StartedAt    *util.Instant `json:"started_at"`
}

type SubmitResult struct {
	ID          uuid.UUID `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SessionTicket struct {
	Token            string     `json:"session_token"`
	StartedAt        time.Time  `json:"started_at"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	TimeLimitSeconds *int       `json:"time_limit_seconds,omitempty"`
}

type Results struct {
	Responses []Score     `json:"responses"`
	Summary   Aggregation `json:"summary"`
}
