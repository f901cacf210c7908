package response_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bank(n int) []*quiz.Question {
	qs := make([]*quiz.Question, 0, n)
	for i := 0; i < n; i++ {
		qs = append(qs, &quiz.Question{
			ID:         uuid.New(),
			Text:       fmt.Sprintf("Q%d", i+1),
			Options:    []string{"Right", "Wrong"},
			Answer:     "Right",
			OrderIndex: i + 1,
		})
	}
	return qs
}

// respond answers the first `correct` questions right and the rest wrong.
func respond(questions []*quiz.Question, correct int) *response.Response {
	r := &response.Response{ID: uuid.New(), CreatedAt: time.Now()}
	for i, q := range questions {
		sel := "Wrong"
		if i < correct {
			sel = "Right"
		}
		r.Answers = append(r.Answers, response.Answer{QuestionID: q.ID, QuestionText: q.Text, SelectedOption: sel})
	}
	return r
}

func TestAggregate(t *testing.T) {
	questions := bank(3)
	responses := []*response.Response{
		respond(questions, 3),
		respond(questions, 2),
		respond(questions, 2),
		respond(questions, 0),
	}

	agg := response.Aggregate(questions, responses)

	require.NotNil(t, agg.AverageScore)
	require.NotNil(t, agg.MedianScore)
	assert.InDelta(t, 1.75, *agg.AverageScore, 1e-9)
	assert.InDelta(t, 2.0, *agg.MedianScore, 1e-9)
	assert.Equal(t, 1, agg.PerfectScores)
	assert.Equal(t, 1, agg.ZeroScores)
	assert.Equal(t, map[int]int{0: 1, 1: 0, 2: 2, 3: 1}, agg.ScoreDistribution)
	assert.Equal(t, 4, agg.ResponseCount)

	require.Len(t, agg.Questions, 3)
	assert.Equal(t, 3, agg.Questions[0].CorrectCount)
	assert.Equal(t, 4, agg.Questions[0].TotalCount)
	assert.Equal(t, 1, agg.Questions[2].CorrectCount)
	assert.InDelta(t, 0.25, agg.Questions[2].CorrectRate, 1e-9)
}

func TestAggregate_Empty(t *testing.T) {
	agg := response.Aggregate(bank(2), nil)

	assert.Nil(t, agg.AverageScore)
	assert.Nil(t, agg.MedianScore)
	assert.Equal(t, map[int]int{0: 0, 1: 0, 2: 0}, agg.ScoreDistribution)
	assert.Empty(t, agg.Questions)

	none := response.Aggregate(nil, []*response.Response{{ID: uuid.New()}})
	assert.Equal(t, 0, none.PerfectScores)
	assert.Equal(t, 1, none.ZeroScores)
	assert.Equal(t, map[int]int{0: 1}, none.ScoreDistribution)
}

func TestAggregate_StaleQuestions(t *testing.T) {
	questions := bank(2)
	removed := &quiz.Question{ID: uuid.New(), Text: "Old wording", Answer: "Right"}

	older := respond(append([]*quiz.Question{removed}, questions...), 3)
	newer := respond(questions, 1)
	newer.Answers = append(newer.Answers, response.Answer{QuestionID: removed.ID, QuestionText: "Newest wording", SelectedOption: "Right"})

	agg := response.Aggregate(questions, []*response.Response{older, newer})

	require.Len(t, agg.Questions, 3)
	stale := agg.Questions[2]
	assert.True(t, stale.Stale)
	assert.Equal(t, removed.ID, stale.QuestionID)
	assert.Equal(t, "Newest wording", stale.QuestionText)
	assert.Equal(t, 2, stale.TotalCount)
	assert.Equal(t, 0, stale.CorrectCount)

	assert.Equal(t, map[int]int{0: 0, 1: 1, 2: 1}, agg.ScoreDistribution)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 2.0, response.Median([]int{3, 1, 2}))
	assert.Equal(t, 2.5, response.Median([]int{4, 1, 3, 2}))
	assert.Equal(t, 0.0, response.Median(nil))

	in := []int{3, 1, 2}
	response.Median(in)
	assert.Equal(t, []int{3, 1, 2}, in)
}
