package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrQuizNotFound     = fmt.Errorf("quiz %w", apperr.ErrNotFound)
	ErrQuestionNotFound = fmt.Errorf("question %w", apperr.ErrNotFound)
	ErrSlugTaken        = fmt.Errorf("slug already in use: %w", apperr.ErrConflict)
)

type QuizRepository interface {
	Create(ctx context.Context, q *Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error)
	GetBySlug(ctx context.Context, slug string) (*Quiz, error)
	Update(ctx context.Context, q *Quiz) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Quiz, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// TryStartGeneration flips the quiz from idle to generating. A run started before staleBefore
	// counts as abandoned and may be taken over. Returns false when another run holds the flag.
	TryStartGeneration(ctx context.Context, id uuid.UUID, now, staleBefore time.Time) (bool, error)
	// FinishGeneration resets the flag only while it still belongs to the run started at startedAt.
	// A run that was taken over leaves the new owner's flag alone.
	FinishGeneration(ctx context.Context, id uuid.UUID, startedAt time.Time) error

	// AppendQuestions assigns consecutive orders after the current maximum and stores the batch.
	AppendQuestions(ctx context.Context, quizID uuid.UUID, questions []*Question) error
	GetQuestion(ctx context.Context, quizID, id uuid.UUID) (*Question, error)
	UpdateQuestion(ctx context.Context, q *Question) error
	// DeleteQuestion removes the question and shifts every later question down by one.
	DeleteQuestion(ctx context.Context, quizID, id uuid.UUID) error
	ListQuestions(ctx context.Context, quizID uuid.UUID) ([]*Question, error)
	CountQuestions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(ctx context.Context, q *Quiz) error {
	err := r.db.WithContext(ctx).Create(q).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *quizRepository) GetByID(ctx context.Context, id uuid.UUID) (*Quiz, error) {
	var q Quiz
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) GetBySlug(ctx context.Context, slug string) (*Quiz, error) {
	var q Quiz
	if err := r.db.WithContext(ctx).First(&q, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) Update(ctx context.Context, q *Quiz) error {
	err := r.db.WithContext(ctx).Model(q).
		Select("name", "description", "slug", "accepting_responses", "start_time", "end_time", "time_limit_seconds", "updated_at").
		Updates(q).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSlugTaken
	}
	return err
}

func (r *quizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Quiz{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (r *quizRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Quiz, error) {
	var quizzes []*Quiz
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Quiz{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *quizRepository) TryStartGeneration(ctx context.Context, id uuid.UUID, now, staleBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Quiz{}).
		Where("id = ?", id).
		Where(r.db.Where("generation_status = ?", GenerationIdle).
			Or("generation_status = ? AND generation_started_at < ?", GenerationInProgress, staleBefore)).
		Updates(map[string]interface{}{
			"generation_status":     GenerationInProgress,
			"generation_started_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *quizRepository) FinishGeneration(ctx context.Context, id uuid.UUID, startedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&Quiz{}).
		Where("id = ? AND generation_status = ? AND generation_started_at = ?", id, GenerationInProgress, startedAt).
		Updates(map[string]interface{}{
			"generation_status":     GenerationIdle,
			"generation_started_at": nil,
		}).Error
}

// lockQuiz serialises order mutations of one quiz for the rest of the transaction.
func lockQuiz(tx *gorm.DB, quizID uuid.UUID) error {
	var q Quiz
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&q, "id = ?", quizID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQuizNotFound
	}
	return err
}

func (r *quizRepository) AppendQuestions(ctx context.Context, quizID uuid.UUID, questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuiz(tx, quizID); err != nil {
			return err
		}

		var maxOrder int
		if err := tx.Model(&Question{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(order_index), 0)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}

		for i, q := range questions {
			q.QuizID = quizID
			q.OrderIndex = maxOrder + i + 1
			if q.ID == uuid.Nil {
				q.ID = uuid.New()
			}
		}
		return tx.Create(&questions).Error
	})
}

func (r *quizRepository) GetQuestion(ctx context.Context, quizID, id uuid.UUID) (*Question, error) {
	var q Question
	if err := r.db.WithContext(ctx).First(&q, "id = ? AND quiz_id = ?", id, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) UpdateQuestion(ctx context.Context, q *Question) error {
	res := r.db.WithContext(ctx).Model(q).
		Where("quiz_id = ?", q.QuizID).
		Select("text", "options", "answer", "updated_at").
		Updates(q)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (r *quizRepository) DeleteQuestion(ctx context.Context, quizID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockQuiz(tx, quizID); err != nil {
			return err
		}

		var q Question
		if err := tx.First(&q, "id = ? AND quiz_id = ?", id, quizID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestionNotFound
			}
			return err
		}

		if err := tx.Delete(&Question{}, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Model(&Question{}).
			Where("quiz_id = ? AND order_index > ?", quizID, q.OrderIndex).
			UpdateColumn("order_index", gorm.Expr("order_index - 1")).Error
	})
}

func (r *quizRepository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]*Question, error) {
	var questions []*Question
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *quizRepository) CountQuestions(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(quizIDs))
	if len(quizIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		QuizID uuid.UUID
		Total  int
	}
	if err := r.db.WithContext(ctx).Model(&Question{}).
		Select("quiz_id, COUNT(*) AS total").
		Where("quiz_id IN ?", quizIDs).
		Group("quiz_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.QuizID] = row.Total
	}
	return counts, nil
}
