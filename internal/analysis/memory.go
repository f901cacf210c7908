package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type memoryRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID][]byte
}

// NewMemoryRepository stores analyses as their JSON encoding so readers never share state.
func NewMemoryRepository() AnalysisRepository {
	return &memoryRepository{rows: make(map[uuid.UUID][]byte)}
}

func (m *memoryRepository) Upsert(ctx context.Context, a *Analysis) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.QuizID] = b
	return nil
}

func (m *memoryRepository) GetByQuiz(ctx context.Context, quizID uuid.UUID) (*Analysis, error) {
	m.mu.Lock()
	b, ok := m.rows[quizID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrAnalysisNotFound
	}

	var a Analysis
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (m *memoryRepository) DeleteByQuiz(ctx context.Context, quizID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[quizID]; !ok {
		return ErrAnalysisNotFound
	}
	delete(m.rows, quizID)
	return nil
}

// ForgetQuiz drops the analysis of a deleted quiz. The memory quiz store runs it on delete.
func ForgetQuiz(repo AnalysisRepository) quiz.CascadeFunc {
	return func(ctx context.Context, quizID uuid.UUID) error {
		if err := repo.DeleteByQuiz(ctx, quizID); err != nil && !errors.Is(err, ErrAnalysisNotFound) {
			return err
		}
		return nil
	}
}
