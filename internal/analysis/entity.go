package analysis

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"gorm.io/datatypes"
)

type ResponseAnalysis struct {
	ResponseID   uuid.UUID `json:"response_id"`
	Correct      int       `json:"correct"`
	Total        int       `json:"total"`
	Percentage   float64   `json:"percentage"`
	WeakTopics   []string  `json:"weak_topics"`
	StrongTopics []string  `json:"strong_topics"`
	FocusAreas   []string  `json:"focus_areas"`
}

type CollectiveAnalysis struct {
	Correct    int      `json:"correct"`
	Total      int      `json:"total"`
	Percentage float64  `json:"percentage"`
	Weaknesses []string `json:"weaknesses"`
	FocusAreas []string `json:"focus_areas"`
}

type Payload struct {
	Responses  []ResponseAnalysis `json:"responses"`
	Collective CollectiveAnalysis `json:"collective"`
}

// Analysis is the single derived analysis row of a quiz. Regeneration replaces it entirely.
type Analysis struct {
	QuizID        uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"quiz_id"`
	Payload       datatypes.JSONType[Payload] `gorm:"type:jsonb;not null" json:"payload"`
	ResponseCount int                         `gorm:"not null" json:"response_count"`
	GeneratedAt   time.Time                   `gorm:"not null" json:"generated_at"`

	Quiz *quiz.Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
