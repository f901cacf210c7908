package quiz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CascadeFunc removes rows of another store that belong to a deleted quiz.
type CascadeFunc func(ctx context.Context, quizID uuid.UUID) error

type memoryRepository struct {
	mu        sync.Mutex
	quizzes   map[uuid.UUID]*Quiz
	questions map[uuid.UUID][]*Question
	cascades  []CascadeFunc
}

// NewMemoryRepository keeps quizzes in process memory. It backs the database-less dev mode.
// cascades run after a quiz is deleted, standing in for the ON DELETE CASCADE foreign keys.
func NewMemoryRepository(cascades ...CascadeFunc) QuizRepository {
	return &memoryRepository{
		quizzes:   make(map[uuid.UUID]*Quiz),
		questions: make(map[uuid.UUID][]*Question),
		cascades:  cascades,
	}
}

func cloneQuiz(q *Quiz) *Quiz {
	c := *q
	c.Questions = nil
	return &c
}

func cloneQuestion(q *Question) *Question {
	c := *q
	c.Options = append([]string(nil), q.Options...)
	return &c
}

func (r *memoryRepository) Create(ctx context.Context, q *Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.quizzes {
		if existing.Slug == q.Slug {
			return ErrSlugTaken
		}
	}
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	now := time.Now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now
	if q.GenerationStatus == "" {
		q.GenerationStatus = GenerationIdle
	}
	r.quizzes[q.ID] = cloneQuiz(q)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quizzes[id]
	if !ok {
		return nil, ErrQuizNotFound
	}
	return cloneQuiz(q), nil
}

func (r *memoryRepository) GetBySlug(ctx context.Context, slug string) (*Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range r.quizzes {
		if q.Slug == slug {
			return cloneQuiz(q), nil
		}
	}
	return nil, ErrQuizNotFound
}

func (r *memoryRepository) Update(ctx context.Context, q *Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.quizzes[q.ID]
	if !ok {
		return ErrQuizNotFound
	}
	for id, existing := range r.quizzes {
		if id != q.ID && existing.Slug == q.Slug {
			return ErrSlugTaken
		}
	}
	stored.Name = q.Name
	stored.Description = q.Description
	stored.Slug = q.Slug
	stored.AcceptingResponses = q.AcceptingResponses
	stored.StartTime = q.StartTime
	stored.EndTime = q.EndTime
	stored.TimeLimitSeconds = q.TimeLimitSeconds
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	if _, ok := r.quizzes[id]; !ok {
		r.mu.Unlock()
		return ErrQuizNotFound
	}
	delete(r.quizzes, id)
	delete(r.questions, id)
	r.mu.Unlock()

	for _, cascade := range r.cascades {
		if err := cascade(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *memoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Quiz
	for _, q := range r.quizzes {
		if q.OwnerID == ownerID {
			out = append(out, cloneQuiz(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range r.quizzes {
		if q.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) TryStartGeneration(ctx context.Context, id uuid.UUID, now, staleBefore time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quizzes[id]
	if !ok {
		return false, ErrQuizNotFound
	}
	stale := q.GenerationStartedAt != nil && q.GenerationStartedAt.Before(staleBefore)
	if q.GenerationStatus == GenerationInProgress && !stale {
		return false, nil
	}
	q.GenerationStatus = GenerationInProgress
	q.GenerationStartedAt = &now
	return true, nil
}

func (r *memoryRepository) FinishGeneration(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	q, ok := r.quizzes[id]
	if !ok || q.GenerationStartedAt == nil || !q.GenerationStartedAt.Equal(startedAt) {
		return nil
	}
	q.GenerationStatus = GenerationIdle
	q.GenerationStartedAt = nil
	return nil
}

func (r *memoryRepository) AppendQuestions(ctx context.Context, quizID uuid.UUID, questions []*Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.quizzes[quizID]; !ok {
		return ErrQuizNotFound
	}
	existing := r.questions[quizID]
	maxOrder := 0
	for _, q := range existing {
		if q.OrderIndex > maxOrder {
			maxOrder = q.OrderIndex
		}
	}

	now := time.Now().UTC()
	for i, q := range questions {
		q.QuizID = quizID
		q.OrderIndex = maxOrder + i + 1
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		q.CreatedAt, q.UpdatedAt = now, now
		existing = append(existing, cloneQuestion(q))
	}
	r.questions[quizID] = existing
	return nil
}

func (r *memoryRepository) GetQuestion(ctx context.Context, quizID, id uuid.UUID) (*Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range r.questions[quizID] {
		if q.ID == id {
			return cloneQuestion(q), nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (r *memoryRepository) UpdateQuestion(ctx context.Context, q *Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.questions[q.QuizID] {
		if stored.ID == q.ID {
			stored.Text = q.Text
			stored.Options = append([]string(nil), q.Options...)
			stored.Answer = q.Answer
			stored.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (r *memoryRepository) DeleteQuestion(ctx context.Context, quizID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.questions[quizID]
	idx := -1
	for i, q := range list {
		if q.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrQuestionNotFound
	}
	removed := list[idx].OrderIndex
	list = append(list[:idx], list[idx+1:]...)
	for _, q := range list {
		if q.OrderIndex > removed {
			q.OrderIndex--
		}
	}
	r.questions[quizID] = list
	return nil
}

func (r *memoryRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]*Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Question, 0, len(r.questions[quizID]))
	for _, q := range r.questions[quizID] {
		out = append(out, cloneQuestion(q))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (r *memoryRepository) CountQuestions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[uuid.UUID]int, len(quizIDs))
	for _, id := range quizIDs {
		if n := len(r.questions[id]); n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}
