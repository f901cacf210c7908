package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"gorm.io/datatypes"
)

// Answer is one selected option, with the question text as it read when the response was sent.
type Answer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	SelectedOption string    `json:"selected_option"`
}

// Response is immutable once stored.
type Response struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Answers       datatypes.JSONSlice[Answer] `gorm:"type:jsonb;not null" json:"answers"`
	StartedAt     *time.Time                  `json:"started_at,omitempty"`
	SessionID     *uuid.UUID                  `gorm:"type:uuid;uniqueIndex" json:"session_id,omitempty"`
	QuestionCount int                         `gorm:"not null;default:0" json:"question_count"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"submitted_at"`

	Quiz *quiz.Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:RESTRICT" json:"-"`
}
