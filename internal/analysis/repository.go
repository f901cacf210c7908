package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrAnalysisNotFound = fmt.Errorf("analysis %w", apperr.ErrNotFound)

type AnalysisRepository interface {
	// Upsert inserts the analysis or replaces the existing row of the same quiz.
	Upsert(ctx context.Context, a *Analysis) error
	GetByQuiz(ctx context.Context, quizID uuid.UUID) (*Analysis, error)
	DeleteByQuiz(ctx context.Context, quizID uuid.UUID) error
}

type analysisRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Upsert(ctx context.Context, a *Analysis) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "response_count", "generated_at"}),
		}).
		Create(a).Error
}

func (r *analysisRepository) GetByQuiz(ctx context.Context, quizID uuid.UUID) (*Analysis, error) {
	var a Analysis
	if err := r.db.WithContext(ctx).First(&a, "quiz_id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *analysisRepository) DeleteByQuiz(ctx context.Context, quizID uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Analysis{}, "quiz_id = ?", quizID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}
