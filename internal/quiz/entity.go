package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Quiz struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID             string           `gorm:"type:text;not null;index" json:"owner_id"`
	Name                string           `gorm:"type:text;not null" json:"name"`
	Description         string           `gorm:"type:text;not null;default:''" json:"description"`
	Slug                string           `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	AcceptingResponses  bool             `gorm:"not null;default:false" json:"accepting_responses"`
	StartTime           *time.Time       `json:"start_time,omitempty"`
	EndTime             *time.Time       `json:"end_time,omitempty"`
	TimeLimitSeconds    *int             `json:"time_limit_seconds,omitempty"`
	GenerationStatus    GenerationStatus `gorm:"type:text;not null;default:'idle'" json:"generation_status"`
	GenerationStartedAt *time.Time       `json:"-"`
	CreatedAt           time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (q *Quiz) TimeLimit() (time.Duration, bool) {
	if q.TimeLimitSeconds == nil {
		return 0, false
	}
	return time.Duration(*q.TimeLimitSeconds) * time.Second, true
}

// AvailableAt evaluates the availability window of the quiz at now.
func (q *Quiz) AvailableAt(now time.Time) bool {
	return IsAvailable(q.AcceptingResponses, q.StartTime, q.EndTime, now)
}

type Question struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID     uuid.UUID                   `gorm:"type:uuid;not null;index:idx_questions_quiz_order,priority:1" json:"quiz_id"`
	Text       string                      `gorm:"type:text;not null" json:"question"`
	Options    datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"select_options"`
	Answer     string                      `gorm:"type:text;not null" json:"answer"`
	OrderIndex int                         `gorm:"not null;index:idx_questions_quiz_order,priority:2" json:"order"`
	Source     QuestionSource              `gorm:"type:text;not null;default:'manual'" json:"source"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}
