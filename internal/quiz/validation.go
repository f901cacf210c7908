package quiz

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
)

const (
	MaxQuestionLength = 2000
	MaxOptionLength   = 500
	MaxOptions        = 10
	MinOptions        = 2
)

// Content is the owner-editable part of a question after normalisation.
type Content struct {
	Text    string
	Options []string
	Answer  string
}

// ValidateContent trims every field and rejects blank or case-insensitively duplicated options.
// The answer must equal one of the options exactly.
func ValidateContent(text string, options []string, answer string) (Content, error) {
	c := Content{
		Text:   strings.TrimSpace(text),
		Answer: strings.TrimSpace(answer),
	}

	seen := make(map[string]struct{}, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return Content{}, apperr.Validation("select_options", fmt.Sprintf("option %d is empty", i+1))
		}
		key := strings.ToLower(opt)
		if _, dup := seen[key]; dup {
			return Content{}, apperr.Validation("select_options", fmt.Sprintf("option %q is duplicated", opt))
		}
		seen[key] = struct{}{}
		c.Options = append(c.Options, opt)
	}

	if err := checkContent(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

// SanitizeContent is the lenient variant used for untrusted candidates: blank options are dropped
// and case-insensitive duplicates collapse to their first occurrence before validation.
func SanitizeContent(text string, options []string, answer string) (Content, error) {
	c := Content{
		Text:   strings.TrimSpace(text),
		Answer: strings.TrimSpace(answer),
	}

	seen := make(map[string]struct{}, len(options))
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key := strings.ToLower(opt)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		c.Options = append(c.Options, opt)
	}

	if err := checkContent(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

func checkContent(c Content) error {
	if c.Text == "" {
		return apperr.Validation("question", "is empty")
	}
	if utf8.RuneCountInString(c.Text) > MaxQuestionLength {
		return apperr.Validation("question", fmt.Sprintf("must be at most %d characters", MaxQuestionLength))
	}
	if len(c.Options) < MinOptions {
		return apperr.Validation("select_options", fmt.Sprintf("needs at least %d distinct options", MinOptions))
	}
	if len(c.Options) > MaxOptions {
		return apperr.Validation("select_options", fmt.Sprintf("allows at most %d options", MaxOptions))
	}
	for _, opt := range c.Options {
		if utf8.RuneCountInString(opt) > MaxOptionLength {
			return apperr.Validation("select_options", fmt.Sprintf("options must be at most %d characters", MaxOptionLength))
		}
	}
	if c.Answer == "" {
		return apperr.Validation("answer", "is empty")
	}
	for _, opt := range c.Options {
		if opt == c.Answer {
			return nil
		}
	}
	return apperr.Validation("answer", "must match one of the options exactly")
}
