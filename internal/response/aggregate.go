package response

import (
	"sort"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type QuestionStat struct {
	QuestionID   uuid.UUID `json:"question_id"`
	QuestionText string    `json:"question_text"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	CorrectRate  float64   `json:"correct_rate"`
	// Stale is set when the question was removed from the bank after being answered.
	Stale bool `json:"stale"`
}

type Aggregation struct {
	TotalQuestions    int            `json:"total_questions"`
	ResponseCount     int            `json:"response_count"`
	ScoreDistribution map[int]int    `json:"score_distribution"`
	AverageScore      *float64       `json:"average_score"`
	MedianScore       *float64       `json:"median_score"`
	PerfectScores     int            `json:"perfect_scores"`
	ZeroScores        int            `json:"zero_scores"`
	Questions         []QuestionStat `json:"questions"`
}

// Aggregate computes collective metrics over every response using the current bank.
func Aggregate(questions []*quiz.Question, responses []*Response) Aggregation {
	bank := index(questions)
	total := len(questions)

	agg := Aggregation{
		TotalQuestions:    total,
		ResponseCount:     len(responses),
		ScoreDistribution: make(map[int]int, total+1),
		Questions:         []QuestionStat{},
	}
	for s := 0; s <= total; s++ {
		agg.ScoreDistribution[s] = 0
	}

	scores := make([]int, 0, len(responses))
	stats := make(map[uuid.UUID]*QuestionStat)
	var firstSeen []uuid.UUID

	for _, r := range responses {
		sc := scoreWith(bank, total, r)
		scores = append(scores, sc.Correct)
		agg.ScoreDistribution[sc.Correct]++
		if total > 0 && sc.Correct == total {
			agg.PerfectScores++
		}
		if sc.Correct == 0 {
			agg.ZeroScores++
		}

		for _, a := range sc.Answers {
			st, ok := stats[a.QuestionID]
			if !ok {
				st = &QuestionStat{QuestionID: a.QuestionID}
				stats[a.QuestionID] = st
				firstSeen = append(firstSeen, a.QuestionID)
			}
			st.TotalCount++
			if a.Status == StatusCorrect {
				st.CorrectCount++
			}
			if a.Status == StatusMissingQuestion {
				st.Stale = true
				if a.QuestionText != "" {
					st.QuestionText = a.QuestionText
				}
			}
		}
	}

	if len(scores) > 0 {
		mean := Mean(scores)
		median := Median(scores)
		agg.AverageScore = &mean
		agg.MedianScore = &median
	}

	for _, q := range questions {
		if st, ok := stats[q.ID]; ok {
			st.QuestionText = q.Text
			agg.Questions = append(agg.Questions, finish(*st))
		}
	}
	for _, id := range firstSeen {
		if st := stats[id]; st.Stale {
			agg.Questions = append(agg.Questions, finish(*st))
		}
	}
	return agg
}

func finish(st QuestionStat) QuestionStat {
	if st.TotalCount > 0 {
		st.CorrectRate = float64(st.CorrectCount) / float64(st.TotalCount)
	}
	return st
}

func Mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// Median averages the two middle values for even-sized input. xs is not modified.
func Median(xs []int) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	sorted := append([]int(nil), xs...)
	sort.Ints(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
