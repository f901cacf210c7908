package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
	"github.com/sirupsen/logrus"
)

const slugAttempts = 5

// ResponseCounter reports how many responses each quiz has collected.
type ResponseCounter interface {
	CountByQuiz(ctx context.Context, quizIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type QuizService interface {
	CreateQuiz(ctx context.Context, ownerID string, dto CreateQuizDTO) (*Quiz, error)
	UpdateQuiz(ctx context.Context, ownerID string, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error)
	SetAccepting(ctx context.Context, ownerID string, quizID uuid.UUID, accepting bool) (*Quiz, error)
	DeleteQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) error
	ListQuizzes(ctx context.Context, ownerID string) ([]QuizSummary, error)
	GetQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) (*QuizDetail, error)
	// GetOwnedQuiz loads the quiz and checks that ownerID owns it.
	GetOwnedQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) (*Quiz, error)
	GetBySlug(ctx context.Context, slug string) (*Quiz, error)
	GetPublicQuiz(ctx context.Context, slug string) (*PublicQuiz, error)

	AddQuestion(ctx context.Context, ownerID string, quizID uuid.UUID, in QuestionInput) (*Question, error)
	// AppendQuestions stores already validated content at the end of the bank.
	AppendQuestions(ctx context.Context, quizID uuid.UUID, contents []Content, source QuestionSource) ([]*Question, error)
	UpdateQuestion(ctx context.Context, ownerID string, quizID, questionID uuid.UUID, in QuestionInput) (*Question, error)
	DeleteQuestion(ctx context.Context, ownerID string, quizID, questionID uuid.UUID) error
	ListQuestions(ctx context.Context, ownerID string, quizID uuid.UUID) ([]*Question, error)
	ListPublicQuestions(ctx context.Context, slug string) ([]PublicQuestion, error)
	// Questions returns the current bank without an ownership check.
	Questions(ctx context.Context, quizID uuid.UUID) ([]*Question, error)
}

type quizService struct {
	repo      QuizRepository
	gate      ratelimit.Gate
	responses ResponseCounter
	now       func() time.Time
}

func NewService(repo QuizRepository, gate ratelimit.Gate, responses ResponseCounter) QuizService {
	return &quizService{
		repo:      repo,
		gate:      gate,
		responses: responses,
		now:       time.Now,
	}
}

type timing struct {
	start, end *time.Time
	limit      *int
}

func validateTiming(t timing) error {
	if t.start != nil && t.end != nil && !t.end.After(*t.start) {
		return apperr.Validation("end_time", "must be after start_time")
	}
	if t.limit != nil && *t.limit <= 0 {
		return apperr.Validation("time_limit_seconds", "must be positive")
	}
	return nil
}

func (s *quizService) resolveSlug(ctx context.Context, requested, name string, self uuid.UUID) (string, error) {
	if requested != "" {
		if err := ValidateSlug(requested); err != nil {
			return "", err
		}
		existing, err := s.repo.GetBySlug(ctx, requested)
		if err != nil && !errors.Is(err, ErrQuizNotFound) {
			return "", err
		}
		if existing != nil && existing.ID != self {
			return "", ErrSlugTaken
		}
		return requested, nil
	}

	for i := 0; i < slugAttempts; i++ {
		slug := GenerateSlug(name)
		taken, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("could not find a free slug for %q: %w", name, apperr.ErrConflict)
}

func (s *quizService) CreateQuiz(ctx context.Context, ownerID string, dto CreateQuizDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	t := timing{start: util.ToTimePtr(dto.StartTime), end: util.ToTimePtr(dto.EndTime), limit: dto.TimeLimitSeconds}
	if err := validateTiming(t); err != nil {
		return nil, err
	}

	if err := s.gate.Check(ctx, ratelimit.ActionCreateQuiz, ownerID); err != nil {
		log.WithError(err).Warn("Quiz creation rate limited")
		return nil, err
	}

	slug, err := s.resolveSlug(ctx, dto.Slug, dto.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	accepting := true
	if dto.AcceptingResponses != nil {
		accepting = *dto.AcceptingResponses
	}

	q := &Quiz{
		ID:                 uuid.New(),
		OwnerID:            ownerID,
		Name:               dto.Name,
		Description:        dto.Description,
		Slug:               slug,
		AcceptingResponses: accepting,
		StartTime:          t.start,
		EndTime:            t.end,
		TimeLimitSeconds:   t.limit,
		GenerationStatus:   GenerationIdle,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		log.WithError(err).Error("Failed to create quiz")
		return nil, err
	}

	log.WithFields(logrus.Fields{"quiz_id": q.ID, "slug": q.Slug}).Info("Quiz created")
	return q, nil
}

func (s *quizService) GetOwnedQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) (*Quiz, error) {
	q, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if q.OwnerID != ownerID {
		config.WithContext(ctx).WithField("quiz_id", quizID).Warn("Access to quiz denied")
		return nil, apperr.Forbidden("quiz")
	}
	return q, nil
}

func (s *quizService) UpdateQuiz(ctx context.Context, ownerID string, quizID uuid.UUID, dto UpdateQuizDTO) (*Quiz, error) {
	q, err := s.GetOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}

	t := timing{start: util.ToTimePtr(dto.StartTime), end: util.ToTimePtr(dto.EndTime), limit: dto.TimeLimitSeconds}
	if err := validateTiming(t); err != nil {
		return nil, err
	}

	if dto.Slug != "" && dto.Slug != q.Slug {
		slug, err := s.resolveSlug(ctx, dto.Slug, dto.Name, q.ID)
		if err != nil {
			return nil, err
		}
		q.Slug = slug
	}

	q.Name = dto.Name
	q.Description = dto.Description
	q.StartTime, q.EndTime, q.TimeLimitSeconds = t.start, t.end, t.limit
	q.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, q); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to update quiz")
		return nil, err
	}
	return q, nil
}

func (s *quizService) SetAccepting(ctx context.Context, ownerID string, quizID uuid.UUID, accepting bool) (*Quiz, error) {
	q, err := s.GetOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}
	q.AcceptingResponses = accepting
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "accepting": accepting}).Info("Quiz accepting flag changed")
	return q, nil
}

func (s *quizService) DeleteQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) error {
	log := config.WithContext(ctx)

	if _, err := s.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return err
	}
	counts, err := s.responses.CountByQuiz(ctx, []uuid.UUID{quizID})
	if err != nil {
		return err
	}
	if n := counts[quizID]; n > 0 {
		return fmt.Errorf("quiz has %d responses: %w", n, apperr.ErrConflict)
	}

	if err := s.repo.Delete(ctx, quizID); err != nil {
		log.WithError(err).Error("Failed to delete quiz")
		return err
	}
	log.WithField("quiz_id", quizID).Info("Quiz deleted")
	return nil
}

func (s *quizService) ListQuizzes(ctx context.Context, ownerID string) ([]QuizSummary, error) {
	quizzes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		ids = append(ids, q.ID)
	}
	questionCounts, err := s.repo.CountQuestions(ctx, ids)
	if err != nil {
		return nil, err
	}
	responseCounts, err := s.responses.CountByQuiz(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, QuizSummary{
			Quiz:          q,
			QuestionCount: questionCounts[q.ID],
			ResponseCount: responseCounts[q.ID],
			Available:     q.AvailableAt(now),
		})
	}
	return out, nil
}

func (s *quizService) GetQuiz(ctx context.Context, ownerID string, quizID uuid.UUID) (*QuizDetail, error) {
	q, err := s.GetOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return &QuizDetail{Quiz: q, Questions: questions, Available: q.AvailableAt(s.now())}, nil
}

func (s *quizService) GetBySlug(ctx context.Context, slug string) (*Quiz, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *quizService) GetPublicQuiz(ctx context.Context, slug string) (*PublicQuiz, error) {
	q, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountQuestions(ctx, []uuid.UUID{q.ID})
	if err != nil {
		return nil, err
	}
	return &PublicQuiz{
		Name:             q.Name,
		Description:      q.Description,
		Slug:             q.Slug,
		StartTime:        q.StartTime,
		EndTime:          q.EndTime,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Availability:     q.WindowAt(s.now()),
		QuestionCount:    counts[q.ID],
	}, nil
}

func (s *quizService) AddQuestion(ctx context.Context, ownerID string, quizID uuid.UUID, in QuestionInput) (*Question, error) {
	if _, err := s.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	c, err := ValidateContent(in.Question, in.SelectOptions, in.Answer)
	if err != nil {
		return nil, err
	}
	added, err := s.AppendQuestions(ctx, quizID, []Content{c}, SourceManual)
	if err != nil {
		return nil, err
	}
	return added[0], nil
}

func (s *quizService) AppendQuestions(ctx context.Context, quizID uuid.UUID, contents []Content, source QuestionSource) ([]*Question, error) {
	questions := make([]*Question, 0, len(contents))
	for _, c := range contents {
		questions = append(questions, &Question{
			ID:      uuid.New(),
			Text:    c.Text,
			Options: append([]string(nil), c.Options...),
			Answer:  c.Answer,
			Source:  source,
		})
	}
	if err := s.repo.AppendQuestions(ctx, quizID, questions); err != nil {
		config.WithContext(ctx).WithError(err).WithField("quiz_id", quizID).Error("Failed to append questions")
		return nil, err
	}
	return questions, nil
}

func (s *quizService) UpdateQuestion(ctx context.Context, ownerID string, quizID, questionID uuid.UUID, in QuestionInput) (*Question, error) {
	if _, err := s.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	q, err := s.repo.GetQuestion(ctx, quizID, questionID)
	if err != nil {
		return nil, err
	}
	c, err := ValidateContent(in.Question, in.SelectOptions, in.Answer)
	if err != nil {
		return nil, err
	}

	q.Text = c.Text
	q.Options = c.Options
	q.Answer = c.Answer
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quizService) DeleteQuestion(ctx context.Context, ownerID string, quizID, questionID uuid.UUID) error {
	if _, err := s.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return err
	}
	if err := s.repo.DeleteQuestion(ctx, quizID, questionID); err != nil {
		return err
	}
	config.WithContext(ctx).WithFields(logrus.Fields{"quiz_id": quizID, "question_id": questionID}).Info("Question deleted")
	return nil
}

func (s *quizService) ListQuestions(ctx context.Context, ownerID string, quizID uuid.UUID) ([]*Question, error) {
	if _, err := s.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	return s.repo.ListQuestions(ctx, quizID)
}

func (s *quizService) ListPublicQuestions(ctx context.Context, slug string) ([]PublicQuestion, error) {
	q, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !q.AvailableAt(s.now()) {
		return nil, apperr.ErrQuizClosed
	}
	questions, err := s.repo.ListQuestions(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return ToPublicQuestions(questions), nil
}

func (s *quizService) Questions(ctx context.Context, quizID uuid.UUID) ([]*Question, error) {
	return s.repo.ListQuestions(ctx, quizID)
}
