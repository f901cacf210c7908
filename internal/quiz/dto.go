package quiz

import (
	"time"

	"github.com/google/uuid"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
)

type CreateQuizDTO struct {
	Name               string        `json:"name" validate:"required,max=120"`
	Description        string        `json:"description" validate:"max=2000"`
	Slug               string        `json:"slug" validate:"omitempty,min=3,max=60"`
	AcceptingResponses *bool         `json:"accepting_responses"`
	StartTime          *util.Instant `json:"start_time"`
	EndTime            *util.Instant `json:"end_time"`
	TimeLimitSeconds   *int          `json:"time_limit_seconds"`
}

// UpdateQuizDTO replaces name, description and timing. Null timing fields clear them.
type UpdateQuizDTO struct {
	Name             string        `json:"name" validate:"required,max=120"`
	Description      string        `json:"description" validate:"max=2000"`
	Slug             string        `json:"slug" validate:"omitempty,min=3,max=60"`
	StartTime        *util.Instant `json:"start_time"`
	EndTime          *util.Instant `json:"end_time"`
	TimeLimitSeconds *int          `json:"time_limit_seconds"`
}

type SetAcceptingDTO struct {
	AcceptingResponses *bool `json:"accepting_responses" validate:"required"`
}

type QuestionInput struct {
	Question      string   `json:"question" validate:"required"`
	SelectOptions []string `json:"select_options" validate:"required,min=2,max=10"`
	Answer        string   `json:"answer" validate:"required"`
}

type QuizSummary struct {
	*Quiz
	QuestionCount int   `json:"question_count"`
	ResponseCount int64 `json:"response_count"`
	Available     bool  `json:"available"`
}

// PublicQuestion is the taker's view of a question, without the answer.
type PublicQuestion struct {
	ID            uuid.UUID `json:"id"`
	Question      string    `json:"question"`
	SelectOptions []string  `json:"select_options"`
	Order         int       `json:"order"`
}

type PublicQuiz struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Slug             string     `json:"slug"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	TimeLimitSeconds *int       `json:"time_limit_seconds,omitempty"`
	Availability     Window     `json:"availability"`
	QuestionCount    int        `json:"question_count"`
}

func ToPublicQuestions(questions []*Question) []PublicQuestion {
	public := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		public = append(public, PublicQuestion{
			ID:            q.ID,
			Question:      q.Text,
			SelectOptions: opts,
			Order:         q.OrderIndex,
		})
	}
	return public
}

type QuizDetail struct {
	*Quiz
	Questions []*Question `json:"questions"`
	Available bool        `json:"available"`
}
