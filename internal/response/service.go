package response

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type ResponseService interface {
	StartSession(ctx context.Context, slug string) (*SessionTicket, error)
	Submit(ctx context.Context, slug string, dto SubmitResponseDTO) (*SubmitResult, error)
	ListResponses(ctx context.Context, ownerID string, quizID uuid.UUID) ([]*Response, error)
	Results(ctx context.Context, ownerID string, quizID uuid.UUID) (*Results, error)
}

type responseService struct {
	repo    ResponseRepository
	quizzes quiz.QuizService
	grace   time.Duration
	now     func() time.Time
}

// NewService builds the taker and owner response operations. grace is added to a quiz time limit
// before a session submission counts as late.
func NewService(repo ResponseRepository, quizzes quiz.QuizService, grace time.Duration) ResponseService {
	return &responseService{
		repo:    repo,
		quizzes: quizzes,
		grace:   grace,
		now:     time.Now,
	}
}

func (s *responseService) StartSession(ctx context.Context, slug string) (*SessionTicket, error) {
	q, err := s.quizzes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !q.AvailableAt(now) {
		return nil, apperr.ErrQuizClosed
	}

	sess := session{ID: uuid.New(), QuizID: q.ID, StartedAt: now}
	token, err := sealSession(sess)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to seal session")
		return nil, err
	}

	limit, hasLimit := q.TimeLimit()
	return &SessionTicket{
		Token:            token,
		StartedAt:        now,
		Deadline:         deadline(now, limit, hasLimit, 0),
		TimeLimitSeconds: q.TimeLimitSeconds,
	}, nil
}

func (s *responseService) Submit(ctx context.Context, slug string, dto SubmitResponseDTO) (*SubmitResult, error) {
	log := config.WithContext(ctx).WithField("slug", slug)

	q, err := s.quizzes.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !q.AvailableAt(now) {
		log.Info("Submission refused, quiz closed")
		return nil, apperr.ErrQuizClosed
	}

	resp := &Response{
		ID:        uuid.New(),
		QuizID:    q.ID,
		StartedAt: util.ToTimePtr(dto.StartedAt),
		CreatedAt: now,
	}

	if token := strings.TrimSpace(dto.SessionToken); token != "" {
		sess, err := openSession(token, q.ID)
		if err != nil {
			return nil, err
		}
		limit, hasLimit := q.TimeLimit()
		if dl := deadline(sess.StartedAt, limit, hasLimit, s.grace); dl != nil && now.After(*dl) {
			log.WithFields(logrus.Fields{"session_id": sess.ID, "late_by": now.Sub(*dl).String()}).
				Warn("Submission after time limit")
			return nil, fmt.Errorf("session %s: %w", sess.ID, apperr.ErrTimeLimitExceeded)
		}
		started := sess.StartedAt
		resp.StartedAt = &started
		resp.SessionID = &sess.ID
	}

	questions, err := s.quizzes.Questions(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	bank := index(questions)
	resp.QuestionCount = len(questions)
	resp.Answers = make(datatypes.JSONSlice[Answer], 0, len(dto.Answers))

	seen := make(map[uuid.UUID]bool, len(dto.Answers))
	for _, in := range dto.Answers {
		if seen[in.QuestionID] {
			return nil, apperr.Validation("answers", fmt.Sprintf("question %s answered twice", in.QuestionID))
		}
		seen[in.QuestionID] = true

		a := Answer{QuestionID: in.QuestionID, SelectedOption: strings.TrimSpace(in.SelectedOption)}
		if qq, ok := bank[in.QuestionID]; ok {
			a.QuestionText = qq.Text
		}
		resp.Answers = append(resp.Answers, a)
	}

	if err := s.repo.Create(ctx, resp); err != nil {
		log.WithError(err).Error("Failed to store response")
		return nil, err
	}

	log.WithFields(logrus.Fields{"quiz_id": q.ID, "response_id": resp.ID, "answers": len(resp.Answers)}).Info("Response submitted")
	return &SubmitResult{ID: resp.ID, SubmittedAt: resp.CreatedAt}, nil
}

func (s *responseService) ListResponses(ctx context.Context, ownerID string, quizID uuid.UUID) ([]*Response, error) {
	if _, err := s.quizzes.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	return s.repo.ListByQuiz(ctx, quizID)
}

func (s *responseService) Results(ctx context.Context, ownerID string, quizID uuid.UUID) (*Results, error) {
	responses, err := s.ListResponses(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, err
	}

	scores := make([]Score, 0, len(responses))
	for _, r := range responses {
		scores = append(scores, ScoreResponse(questions, r))
	}
	return &Results{
		Responses: scores,
		Summary:   Aggregate(questions, responses),
	}, nil
}
