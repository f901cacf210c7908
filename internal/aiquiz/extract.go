package aiquiz

import (
	"errors"

	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
)

var ErrNoArrayLiteral = errors.New("no JSON array found in model output")

// ExtractArrayLiteral finds the JSON array in free-form model text: a fenced code block first,
// then the span from the first '[' to the last ']'.
func ExtractArrayLiteral(text string) (string, error) {
	literal, ok := llm.ExtractLiteral(text, '[', ']')
	if !ok {
		return "", ErrNoArrayLiteral
	}
	return literal, nil
}
