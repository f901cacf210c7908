package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type AnalysisService interface {
	Generate(ctx context.Context, ownerID string, quizID uuid.UUID) (*Analysis, error)
	Get(ctx context.Context, ownerID string, quizID uuid.UUID) (*Analysis, error)
	Delete(ctx context.Context, ownerID string, quizID uuid.UUID) error
}

type analysisService struct {
	repo      AnalysisRepository
	quizzes   quiz.QuizService
	responses response.ResponseRepository
	gate      ratelimit.Gate
	model     llm.Client
	now       func() time.Time
}

func NewService(repo AnalysisRepository, quizzes quiz.QuizService, responses response.ResponseRepository, gate ratelimit.Gate, model llm.Client) AnalysisService {
	return &analysisService{
		repo:      repo,
		quizzes:   quizzes,
		responses: responses,
		gate:      gate,
		model:     model,
		now:       time.Now,
	}
}

// EmptyPayload is stored for a quiz that has no responses yet.
func EmptyPayload() Payload {
	return Payload{
		Responses: []ResponseAnalysis{},
		Collective: CollectiveAnalysis{
			Weaknesses: []string{},
			FocusAreas: []string{},
		},
	}
}

func (s *analysisService) Generate(ctx context.Context, ownerID string, quizID uuid.UUID) (*Analysis, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	q, err := s.quizzes.GetOwnedQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if len(responses) == 0 {
		a := &Analysis{QuizID: quizID, Payload: datatypes.NewJSONType(EmptyPayload()), GeneratedAt: s.now().UTC()}
		if err := s.repo.Upsert(ctx, a); err != nil {
			return nil, err
		}
		log.Info("Stored empty analysis, quiz has no responses")
		return a, nil
	}

	if err := s.gate.Check(ctx, ratelimit.ActionGenerateAnalysis, ownerID); err != nil {
		log.WithError(err).Warn("Analysis rate limited")
		return nil, err
	}

	questions, err := s.quizzes.Questions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	scores := make([]response.Score, 0, len(responses))
	for _, r := range responses {
		scores = append(scores, response.ScoreResponse(questions, r))
	}

	raw, err := s.model.Generate(ctx, llm.Request{
		System: systemPrompt,
		Prompt: BuildUserPrompt(q, questions, scores),
	})
	if err != nil {
		log.WithError(err).Error("Model call failed")
		return nil, err
	}

	payload, err := ParsePayload(raw)
	if err != nil {
		log.WithError(err).Error("Analysis output rejected")
		return nil, err
	}

	a := &Analysis{
		QuizID:        quizID,
		Payload:       datatypes.NewJSONType(Merge(payload, scores)),
		ResponseCount: len(responses),
		GeneratedAt:   s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		log.WithError(err).Error("Failed to store analysis")
		return nil, err
	}

	log.WithFields(logrus.Fields{"responses": len(responses)}).Info("Analysis generated")
	return a, nil
}

// ParsePayload extracts the JSON object from model text and checks it against PayloadSchema.
func ParsePayload(raw string) (Payload, error) {
	literal, ok := llm.ExtractLiteral(raw, '{', '}')
	if !ok {
		return Payload{}, apperr.WithExcerpt(apperr.ErrSchemaValidation, "no JSON object found", raw)
	}

	doc, err := Decode(literal)
	if err != nil {
		return Payload{}, apperr.WithExcerpt(apperr.ErrSchemaValidation, "invalid JSON: "+err.Error(), literal)
	}
	if violations := PayloadSchema.Validate(doc); len(violations) > 0 {
		msgs := make([]string, 0, len(violations))
		for _, v := range violations {
			msgs = append(msgs, v.String())
		}
		return Payload{}, apperr.WithExcerpt(apperr.ErrSchemaValidation, strings.Join(msgs, "; "), literal)
	}

	var p Payload
	if err := json.Unmarshal([]byte(literal), &p); err != nil {
		return Payload{}, apperr.WithExcerpt(apperr.ErrSchemaValidation, err.Error(), literal)
	}
	return p, nil
}

// Merge keeps the model's qualitative fields and replaces every number with the scored values.
// Responses the model skipped get empty lists; ids it made up are dropped.
func Merge(p Payload, scores []response.Score) Payload {
	byID := make(map[uuid.UUID]ResponseAnalysis, len(p.Responses))
	for _, ra := range p.Responses {
		byID[ra.ResponseID] = ra
	}

	out := Payload{Responses: make([]ResponseAnalysis, 0, len(scores))}
	for _, s := range scores {
		ra := byID[s.ResponseID]
		ra.ResponseID = s.ResponseID
		ra.Correct = s.Correct
		ra.Total = s.Total
		ra.Percentage = s.Percentage
		ra.WeakTopics = nonNil(ra.WeakTopics)
		ra.StrongTopics = nonNil(ra.StrongTopics)
		ra.FocusAreas = nonNil(ra.FocusAreas)
		out.Responses = append(out.Responses, ra)

		out.Collective.Correct += s.Correct
		out.Collective.Total += s.Total
	}

	out.Collective.Percentage = response.Percentage(out.Collective.Correct, out.Collective.Total)
	out.Collective.Weaknesses = nonNil(p.Collective.Weaknesses)
	out.Collective.FocusAreas = nonNil(p.Collective.FocusAreas)
	return out
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}

func (s *analysisService) Get(ctx context.Context, ownerID string, quizID uuid.UUID) (*Analysis, error) {
	if _, err := s.quizzes.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return nil, err
	}
	return s.repo.GetByQuiz(ctx, quizID)
}

func (s *analysisService) Delete(ctx context.Context, ownerID string, quizID uuid.UUID) error {
	if _, err := s.quizzes.GetOwnedQuiz(ctx, ownerID, quizID); err != nil {
		return err
	}
	return s.repo.DeleteByQuiz(ctx, quizID)
}
