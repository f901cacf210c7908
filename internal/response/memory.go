package response

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu        sync.Mutex
	responses []*Response
}

func NewMemoryRepository() ResponseRepository {
	return &memoryRepository{}
}

func cloneResponse(r *Response) *Response {
	c := *r
	c.Answers = append([]Answer(nil), r.Answers...)
	return &c
}

func (m *memoryRepository) Create(ctx context.Context, r *Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.SessionID != nil {
		for _, existing := range m.responses {
			if existing.SessionID != nil && *existing.SessionID == *r.SessionID {
				return ErrSessionUsed
			}
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	m.responses = append(m.responses, cloneResponse(r))
	return nil
}

func (m *memoryRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Response
	for _, r := range m.responses {
		if r.QuizID == quizID {
			out = append(out, cloneResponse(r))
		}
	}
	return out, nil
}

func (m *memoryRepository) CountByQuiz(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := make(map[uuid.UUID]bool, len(quizIDs))
	for _, id := range quizIDs {
		want[id] = true
	}
	counts := make(map[uuid.UUID]int64, len(quizIDs))
	for _, r := range m.responses {
		if want[r.QuizID] {
			counts[r.QuizID]++
		}
	}
	return counts, nil
}
