package response

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
)

type AnswerStatus string

const (
	StatusCorrect         AnswerStatus = "correct"
	StatusIncorrect       AnswerStatus = "incorrect"
	StatusMissingQuestion AnswerStatus = "missing_question"
)

type ScoredAnswer struct {
	QuestionID     uuid.UUID    `json:"question_id"`
	QuestionText   string       `json:"question_text"`
	SelectedOption string       `json:"selected_option"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
	Status         AnswerStatus `json:"status"`
}

type Score struct {
	ResponseID  uuid.UUID      `json:"response_id"`
	Correct     int            `json:"correct"`
	Total       int            `json:"total"`
	Percentage  float64        `json:"percentage"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     []ScoredAnswer `json:"answers"`
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func index(questions []*quiz.Question) map[uuid.UUID]*quiz.Question {
	m := make(map[uuid.UUID]*quiz.Question, len(questions))
	for _, q := range questions {
		m[q.ID] = q
	}
	return m
}

// IsCorrect compares ignoring case and surrounding space.
func IsCorrect(q *quiz.Question, selected string) bool {
	return normalize(selected) == normalize(q.Answer)
}

// ScoreResponse grades r against the current bank. The total is the size of the bank passed in,
// not the size it had when r was submitted.
func ScoreResponse(questions []*quiz.Question, r *Response) Score {
	return scoreWith(index(questions), len(questions), r)
}

func scoreWith(bank map[uuid.UUID]*quiz.Question, total int, r *Response) Score {
	s := Score{
		ResponseID:  r.ID,
		Total:       total,
		SubmittedAt: r.CreatedAt,
		Answers:     make([]ScoredAnswer, 0, len(r.Answers)),
	}

	for _, a := range r.Answers {
		sa := ScoredAnswer{
			QuestionID:     a.QuestionID,
			QuestionText:   a.QuestionText,
			SelectedOption: a.SelectedOption,
		}
		q, ok := bank[a.QuestionID]
		switch {
		case !ok:
			sa.Status = StatusMissingQuestion
		case IsCorrect(q, a.SelectedOption):
			sa.Status = StatusCorrect
			sa.CorrectAnswer = q.Answer
			s.Correct++
		default:
			sa.Status = StatusIncorrect
			sa.CorrectAnswer = q.Answer
		}
		s.Answers = append(s.Answers, sa)
	}

	s.Percentage = Percentage(s.Correct, s.Total)
	return s
}

// Percentage is correct/total as a percentage rounded to two decimals, 0 when total is 0.
func Percentage(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}
