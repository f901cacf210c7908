package aiquiz

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	"github.com/saulo-duarte/quizforge-lambda/internal/storage"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GenerateQuestions(ctx context.Context, requester string, quizID uuid.UUID, req GenerateRequest) (*GenerateResult, error)
}

type service struct {
	quizzes quiz.QuizService
	guard   *quiz.Guard
	gate    ratelimit.Gate
	model   llm.Client
	store   storage.Store
}

func NewService(quizzes quiz.QuizService, guard *quiz.Guard, gate ratelimit.Gate, model llm.Client, store storage.Store) Service {
	return &service{
		quizzes: quizzes,
		guard:   guard,
		gate:    gate,
		model:   model,
		store:   store,
	}
}

func (s *service) GenerateQuestions(ctx context.Context, requester string, quizID uuid.UUID, req GenerateRequest) (*GenerateResult, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	if req.Count < MinQuestions || req.Count > MaxQuestions {
		return nil, apperr.Validation("count", fmt.Sprintf("must be between %d and %d", MinQuestions, MaxQuestions))
	}
	if _, err := s.quizzes.GetOwnedQuiz(ctx, requester, quizID); err != nil {
		return nil, err
	}
	mat, err := resolveMaterial(ctx, s.store, requester, req)
	if err != nil {
		log.WithError(err).Warn("Generation source rejected")
		return nil, err
	}

	release, err := s.guard.Acquire(ctx, quizID)
	if err != nil {
		log.WithError(err).Warn("Generation already running")
		return nil, err
	}
	defer release()

	if err := s.gate.Check(ctx, ratelimit.ActionGenerateQuestions, requester); err != nil {
		log.WithError(err).Warn("Generation rate limited")
		return nil, err
	}

	raw, err := s.model.Generate(ctx, llm.Request{
		System:     systemPrompt,
		Prompt:     BuildUserPrompt(req.Count, mat.source),
		Attachment: mat.attachment,
	})
	if err != nil {
		log.WithError(err).Error("Model call failed")
		return nil, err
	}
	log.Debugf("Raw model output:\n%s", raw)

	contents, rejected, err := ParseCandidates(ctx, raw)
	if err != nil {
		log.WithError(err).Error("Model output rejected")
		return nil, err
	}
	if len(contents) > req.Count {
		contents = contents[:req.Count]
	}

	result := &GenerateResult{QuizID: quizID, Rejected: rejected, Questions: []*quiz.Question{}}
	if len(contents) == 0 {
		return result, nil
	}

	added, err := s.quizzes.AppendQuestions(ctx, quizID, contents, quiz.SourceGenerated)
	if err != nil {
		return nil, err
	}
	result.Created = len(added)
	result.Questions = added

	log.WithFields(logrus.Fields{"created": result.Created, "rejected": rejected}).Info("Questions generated")
	return result, nil
}

// ParseCandidates turns raw model text into validated question content. Candidates failing
// validation are logged and counted, not returned. A non-empty array with no valid candidate fails
// with apperr.ErrNoValidQuestions.
func ParseCandidates(ctx context.Context, raw string) ([]quiz.Content, int, error) {
	log := config.WithContext(ctx)

	literal, err := ExtractArrayLiteral(raw)
	if err != nil {
		return nil, 0, apperr.WithExcerpt(apperr.ErrMalformedModelOutput, err.Error(), raw)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(literal), &items); err != nil {
		return nil, 0, apperr.WithExcerpt(apperr.ErrMalformedModelOutput, "not a JSON array: "+err.Error(), literal)
	}

	contents := make([]quiz.Content, 0, len(items))
	rejected := 0
	for i, item := range items {
		var c Candidate
		if err := json.Unmarshal(item, &c); err != nil {
			rejected++
			log.WithFields(logrus.Fields{"index": i, "reason": err.Error()}).Warn("Dropped malformed candidate")
			continue
		}
		content, err := quiz.SanitizeContent(c.Question, c.SelectOptions, c.Answer)
		if err != nil {
			rejected++
			log.WithFields(logrus.Fields{"index": i, "reason": err.Error()}).Warn("Dropped invalid candidate")
			continue
		}
		contents = append(contents, content)
	}

	if len(items) > 0 && len(contents) == 0 {
		return nil, rejected, fmt.Errorf("all %d candidates rejected: %w", len(items), apperr.ErrNoValidQuestions)
	}
	return contents, rejected, nil
}
