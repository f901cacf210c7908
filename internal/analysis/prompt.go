package analysis

import (
	"fmt"
	"strings"

	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/saulo-duarte/quizforge-lambda/internal/response"
)

const systemPrompt = `
You analyse the results of a multiple-choice quiz for its author.

For every response, name the topics the taker handled poorly ("weak_topics"), the topics they
handled well ("strong_topics") and short study suggestions ("focus_areas"). Then summarise the whole
group: the weaknesses shared by most takers ("weaknesses") and what the group should study next
("focus_areas").

Output format, and nothing else:

{
  "responses": [
    {
      "response_id": "<id as given>",
      "correct": <integer>,
      "total": <integer>,
      "percentage": <number between 0 and 100>,
      "weak_topics": ["<topic>"],
      "strong_topics": ["<topic>"],
      "focus_areas": ["<suggestion>"]
    }
  ],
  "collective": {
    "correct": <integer>,
    "total": <integer>,
    "percentage": <number between 0 and 100>,
    "weaknesses": ["<topic>"],
    "focus_areas": ["<suggestion>"]
  }
}

Use empty arrays when there is nothing to say. Always answer with pure, valid JSON.
`

func BuildUserPrompt(q *quiz.Quiz, questions []*quiz.Question, scores []response.Score) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Quiz: %s\n", q.Name)
	if q.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", q.Description)
	}

	b.WriteString("\nQuestions:\n")
	for _, qq := range questions {
		fmt.Fprintf(&b, "%d. %s\n   Options: %s\n   Correct answer: %s\n",
			qq.OrderIndex, qq.Text, strings.Join(qq.Options, " | "), qq.Answer)
	}

	b.WriteString("\nResponses:\n")
	for _, s := range scores {
		fmt.Fprintf(&b, "- response_id %s: %d of %d correct\n", s.ResponseID, s.Correct, s.Total)
		for _, a := range s.Answers {
			fmt.Fprintf(&b, "    * %q -> %q (%s)\n", a.QuestionText, a.SelectedOption, a.Status)
		}
	}
	return b.String()
}
