package response

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const owner = "owner-1"

type harness struct {
	quizzes quiz.QuizService
	repo    ResponseRepository
	svc     *responseService
	clock   time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("SESSION_KEY", "0123456789abcdef0123456789abcdef")
	config.InitCrypto()

	repo := NewMemoryRepository()
	quizzes := quiz.NewService(quiz.NewMemoryRepository(), ratelimit.NewMemoryGate(ratelimit.DefaultPolicies), repo)
	h := &harness{quizzes: quizzes, repo: repo, clock: time.Now().UTC()}
	h.svc = NewService(repo, quizzes, 30*time.Second).(*responseService)
	h.svc.now = func() time.Time { return h.clock }
	return h
}

func (h *harness) quiz(t *testing.T, dto quiz.CreateQuizDTO) (*quiz.Quiz, []*quiz.Question) {
	t.Helper()
	ctx := context.Background()
	q, err := h.quizzes.CreateQuiz(ctx, owner, dto)
	require.NoError(t, err)

	var questions []*quiz.Question
	for _, text := range []string{"2+2", "3+3"} {
		added, err := h.quizzes.AddQuestion(ctx, owner, q.ID, quiz.QuestionInput{
			Question: text, SelectOptions: []string{"4", "6"}, Answer: map[string]string{"2+2": "4", "3+3": "6"}[text],
		})
		require.NoError(t, err)
		questions = append(questions, added)
	}
	return q, questions
}

func answers(questions []*quiz.Question, selected ...string) []AnswerInput {
	out := make([]AnswerInput, 0, len(selected))
	for i, s := range selected {
		out = append(out, AnswerInput{QuestionID: questions[i].ID, SelectedOption: s})
	}
	return out
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a snapshot of the question text", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Math"})

		res, err := h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4", " 4 ")})
		require.NoError(t, err)

		stored, err := h.repo.ListByQuiz(ctx, q.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, res.ID, stored[0].ID)
		assert.Equal(t, 2, stored[0].QuestionCount)
		assert.Equal(t, "2+2", stored[0].Answers[0].QuestionText)
		assert.Equal(t, "4", stored[0].Answers[1].SelectedOption)
	})

	t.Run("unknown slug", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.Submit(ctx, "nope-123456", SubmitResponseDTO{Answers: []AnswerInput{}})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("closed manually", func(t *testing.T) {
		h := newHarness(t)
		closed := false
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Math", AcceptingResponses: &closed})

		_, err := h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4")})
		assert.ErrorIs(t, err, apperr.ErrQuizClosed)
	})

	t.Run("window re-checked at submission", func(t *testing.T) {
		h := newHarness(t)
		end := util.Instant{Time: h.clock.Add(time.Minute)}
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Math", EndTime: &end})

		ticket, err := h.svc.StartSession(ctx, q.Slug)
		require.NoError(t, err)

		h.clock = h.clock.Add(2 * time.Minute)
		_, err = h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: ticket.Token})
		assert.ErrorIs(t, err, apperr.ErrQuizClosed)
	})

	t.Run("duplicate question", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Math"})
		dup := []AnswerInput{
			{QuestionID: questions[0].ID, SelectedOption: "4"},
			{QuestionID: questions[0].ID, SelectedOption: "6"},
		}
		_, err := h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: dup})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	limit := 60

	t.Run("within the limit", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Timed", TimeLimitSeconds: &limit})

		ticket, err := h.svc.StartSession(ctx, q.Slug)
		require.NoError(t, err)
		require.NotNil(t, ticket.Deadline)
		assert.True(t, h.clock.Add(time.Minute).Equal(*ticket.Deadline))

		h.clock = h.clock.Add(80 * time.Second)
		_, err = h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: ticket.Token})
		require.NoError(t, err)

		stored, err := h.repo.ListByQuiz(ctx, q.ID)
		require.NoError(t, err)
		require.NotNil(t, stored[0].StartedAt)
		assert.True(t, ticket.StartedAt.Equal(*stored[0].StartedAt))
	})

	t.Run("late submission rejected", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Timed", TimeLimitSeconds: &limit})

		ticket, err := h.svc.StartSession(ctx, q.Slug)
		require.NoError(t, err)

		h.clock = h.clock.Add(91 * time.Second)
		_, err = h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: ticket.Token})
		assert.ErrorIs(t, err, apperr.ErrTimeLimitExceeded)
	})

	t.Run("without a token the limit is advisory", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Timed", TimeLimitSeconds: &limit})

		started := util.Instant{Time: h.clock.Add(-time.Hour)}
		_, err := h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), StartedAt: &started})
		require.NoError(t, err)
	})

	t.Run("token is single use", func(t *testing.T) {
		h := newHarness(t)
		q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Timed"})

		ticket, err := h.svc.StartSession(ctx, q.Slug)
		require.NoError(t, err)
		assert.Nil(t, ticket.Deadline)

		dto := SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: ticket.Token}
		_, err = h.svc.Submit(ctx, q.Slug, dto)
		require.NoError(t, err)
		_, err = h.svc.Submit(ctx, q.Slug, dto)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("token bound to its quiz", func(t *testing.T) {
		h := newHarness(t)
		a, _ := h.quiz(t, quiz.CreateQuizDTO{Name: "A"})
		b, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "B"})

		ticket, err := h.svc.StartSession(ctx, a.Slug)
		require.NoError(t, err)
		_, err = h.svc.Submit(ctx, b.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: ticket.Token})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = h.svc.Submit(ctx, b.Slug, SubmitResponseDTO{Answers: answers(questions, "4"), SessionToken: "garbage"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("cannot start on a closed quiz", func(t *testing.T) {
		h := newHarness(t)
		start := util.Instant{Time: h.clock.Add(time.Hour)}
		q, _ := h.quiz(t, quiz.CreateQuizDTO{Name: "Later", StartTime: &start})

		_, err := h.svc.StartSession(ctx, q.Slug)
		assert.ErrorIs(t, err, apperr.ErrQuizClosed)
	})
}

func TestResults(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	q, questions := h.quiz(t, quiz.CreateQuizDTO{Name: "Math"})

	for _, sel := range [][]string{{"4", "6"}, {"4", "4"}, {"6", "4"}} {
		_, err := h.svc.Submit(ctx, q.Slug, SubmitResponseDTO{Answers: answers(questions, sel...)})
		require.NoError(t, err)
	}

	res, err := h.svc.Results(ctx, owner, q.ID)
	require.NoError(t, err)
	require.Len(t, res.Responses, 3)
	assert.Equal(t, 2, res.Responses[0].Correct)
	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, res.Summary.ScoreDistribution)

	_, err = h.svc.Results(ctx, "intruder", q.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = h.svc.ListResponses(ctx, owner, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
