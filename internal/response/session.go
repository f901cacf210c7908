package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
)

// session is sealed into the token handed to the taker. The server keeps no copy.
type session struct {
	ID        uuid.UUID `json:"sid"`
	QuizID    uuid.UUID `json:"qid"`
	StartedAt time.Time `json:"st"`
}

func sealSession(s session) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return config.Encrypt(string(b))
}

func openSession(token string, quizID uuid.UUID) (session, error) {
	plain, err := config.Decrypt(token)
	if err != nil {
		return session{}, apperr.Validation("session_token", "is invalid")
	}
	var s session
	if err := json.Unmarshal([]byte(plain), &s); err != nil || s.ID == uuid.Nil {
		return session{}, apperr.Validation("session_token", "is invalid")
	}
	if s.QuizID != quizID {
		return session{}, apperr.Validation("session_token", "belongs to another quiz")
	}
	return s, nil
}

// deadline is the last instant a submission is accepted for a session, or nil without a limit.
func deadline(started time.Time, limit time.Duration, hasLimit bool, grace time.Duration) *time.Time {
	if !hasLimit {
		return nil
	}
	d := started.Add(limit + grace)
	return &d
}
