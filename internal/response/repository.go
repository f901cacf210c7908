package response

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"gorm.io/gorm"
)

var ErrSessionUsed = fmt.Errorf("session already submitted: %w", apperr.ErrConflict)

// ResponseRepository is append-only.
type ResponseRepository interface {
	Create(ctx context.Context, r *Response) error
	ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*Response, error)
	CountByQuiz(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type responseRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) ResponseRepository {
	return &responseRepository{db: db}
}

func (r *responseRepository) Create(ctx context.Context, resp *Response) error {
	err := r.db.WithContext(ctx).Create(resp).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSessionUsed
	}
	return err
}

func (r *responseRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]*Response, error) {
	var out []*Response
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *responseRepository) CountByQuiz(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(quizIDs))
	if len(quizIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		QuizID uuid.UUID
		Total  int64
	}
	if err := r.db.WithContext(ctx).Model(&Response{}).
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
