package quiz_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/ratelimit"
	util "github.com/saulo-duarte/quizforge-lambda/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *fakeGate) Check(ctx context.Context, action ratelimit.Action, identity string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.err
}

type fakeCounter map[uuid.UUID]int64

func (c fakeCounter) CountByQuiz(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	for _, id := range ids {
		if n, ok := c[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

const owner = "owner-1"

func newService(t *testing.T) (quiz.QuizService, quiz.QuizRepository, *fakeGate, fakeCounter) {
	t.Helper()
	repo := quiz.NewMemoryRepository()
	gate := &fakeGate{}
	counter := fakeCounter{}
	return quiz.NewService(repo, gate, counter), repo, gate, counter
}

func createQuiz(t *testing.T, svc quiz.QuizService) *quiz.Quiz {
	t.Helper()
	q, err := svc.CreateQuiz(context.Background(), owner, quiz.CreateQuizDTO{Name: "Capitals"})
	require.NoError(t, err)
	return q
}

func addQuestions(t *testing.T, svc quiz.QuizService, quizID uuid.UUID, n int) []*quiz.Question {
	t.Helper()
	var out []*quiz.Question
	for i := 0; i < n; i++ {
		q, err := svc.AddQuestion(context.Background(), owner, quizID, quiz.QuestionInput{
			Question:      fmt.Sprintf("Question %d", i+1),
			SelectOptions: []string{"a", "b", "c", "d"},
			Answer:        "a",
		})
		require.NoError(t, err)
		out = append(out, q)
	}
	return out
}

func orders(qs []*quiz.Question) []int {
	out := make([]int, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.OrderIndex)
	}
	return out
}

func TestCreateQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc, _, gate, _ := newService(t)
		q := createQuiz(t, svc)

		assert.True(t, q.AcceptingResponses)
		assert.Equal(t, quiz.GenerationIdle, q.GenerationStatus)
		assert.Regexp(t, `^capitals-[a-z0-9]{6}$`, q.Slug)
		assert.Equal(t, 1, gate.calls)
	})

	t.Run("rate limited", func(t *testing.T) {
		svc, _, gate, _ := newService(t)
		gate.err = apperr.ErrRateLimited
		_, err := svc.CreateQuiz(ctx, owner, quiz.CreateQuizDTO{Name: "x"})
		assert.ErrorIs(t, err, apperr.ErrRateLimited)
	})

	t.Run("custom slug must be unique", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		_, err := svc.CreateQuiz(ctx, owner, quiz.CreateQuizDTO{Name: "a", Slug: "my-quiz"})
		require.NoError(t, err)
		_, err = svc.CreateQuiz(ctx, "someone-else", quiz.CreateQuizDTO{Name: "b", Slug: "my-quiz"})
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})

	t.Run("timing rules", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		start := util.Instant{Time: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
		end := util.Instant{Time: start.Add(-time.Minute)}
		_, err := svc.CreateQuiz(ctx, owner, quiz.CreateQuizDTO{Name: "a", StartTime: &start, EndTime: &end})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		zero := 0
		_, err = svc.CreateQuiz(ctx, owner, quiz.CreateQuizDTO{Name: "a", TimeLimitSeconds: &zero})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestOwnership(t *testing.T) {
	svc, _, _, _ := newService(t)
	q := createQuiz(t, svc)

	_, err := svc.GetQuiz(context.Background(), "intruder", q.ID)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.AddQuestion(context.Background(), "intruder", q.ID, quiz.QuestionInput{
		Question: "q", SelectOptions: []string{"a", "b"}, Answer: "a",
	})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.GetQuiz(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestQuestionBankOrdering(t *testing.T) {
	ctx := context.Background()

	t.Run("append continues from the maximum", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		q := createQuiz(t, svc)
		addQuestions(t, svc, q.ID, 3)

		added, err := svc.AppendQuestions(ctx, q.ID, []quiz.Content{
			{Text: "g1", Options: []string{"a", "b"}, Answer: "a"},
			{Text: "g2", Options: []string{"a", "b"}, Answer: "b"},
		}, quiz.SourceGenerated)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5}, orders(added))
	})

	for k := 1; k <= 5; k++ {
		t.Run(fmt.Sprintf("delete order %d of 5 stays dense", k), func(t *testing.T) {
			svc, _, _, _ := newService(t)
			q := createQuiz(t, svc)
			questions := addQuestions(t, svc, q.ID, 5)

			require.NoError(t, svc.DeleteQuestion(ctx, owner, q.ID, questions[k-1].ID))

			remaining, err := svc.ListQuestions(ctx, owner, q.ID)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3, 4}, orders(remaining))
			for _, r := range remaining {
				assert.NotEqual(t, questions[k-1].ID, r.ID)
			}
		})
	}

	t.Run("append after delete", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		q := createQuiz(t, svc)
		questions := addQuestions(t, svc, q.ID, 3)
		require.NoError(t, svc.DeleteQuestion(ctx, owner, q.ID, questions[0].ID))

		added := addQuestions(t, svc, q.ID, 1)
		assert.Equal(t, 3, added[0].OrderIndex)
	})

	t.Run("update keeps order", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		q := createQuiz(t, svc)
		questions := addQuestions(t, svc, q.ID, 2)

		updated, err := svc.UpdateQuestion(ctx, owner, q.ID, questions[1].ID, quiz.QuestionInput{
			Question: " Renamed ", SelectOptions: []string{"x", "y"}, Answer: "y",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, updated.OrderIndex)
		assert.Equal(t, "Renamed", updated.Text)

		_, err = svc.UpdateQuestion(ctx, owner, q.ID, questions[1].ID, quiz.QuestionInput{
			Question: "q", SelectOptions: []string{"x", "y"}, Answer: "z",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("delete unknown question", func(t *testing.T) {
		svc, _, _, _ := newService(t)
		q := createQuiz(t, svc)
		err := svc.DeleteQuestion(ctx, owner, q.ID, uuid.New())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestPublicQuestions(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newService(t)
	q := createQuiz(t, svc)
	addQuestions(t, svc, q.ID, 2)

	public, err := svc.ListPublicQuestions(ctx, q.Slug)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, "Question 1", public[0].Question)

	_, err = svc.SetAccepting(ctx, owner, q.ID, false)
	require.NoError(t, err)
	_, err = svc.ListPublicQuestions(ctx, q.Slug)
	assert.ErrorIs(t, err, apperr.ErrQuizClosed)

	info, err := svc.GetPublicQuiz(ctx, q.Slug)
	require.NoError(t, err)
	assert.Equal(t, quiz.WindowClosed, info.Availability.State)
	assert.Equal(t, 2, info.QuestionCount)
}

func TestDeleteQuiz(t *testing.T) {
	ctx := context.Background()
	svc, _, _, counter := newService(t)

	q := createQuiz(t, svc)
	counter[q.ID] = 1
	assert.ErrorIs(t, svc.DeleteQuiz(ctx, owner, q.ID), apperr.ErrConflict)

	delete(counter, q.ID)
	require.NoError(t, svc.DeleteQuiz(ctx, owner, q.ID))
	_, err := svc.GetQuiz(ctx, owner, q.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListQuizzes(t *testing.T) {
	ctx := context.Background()
	svc, _, _, counter := newService(t)

	q := createQuiz(t, svc)
	addQuestions(t, svc, q.ID, 2)
	counter[q.ID] = 7
	_, err := svc.CreateQuiz(ctx, "other", quiz.CreateQuizDTO{Name: "not mine"})
	require.NoError(t, err)

	list, err := svc.ListQuizzes(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].QuestionCount)
	assert.Equal(t, int64(7), list[0].ResponseCount)
	assert.True(t, list[0].Available)
}
