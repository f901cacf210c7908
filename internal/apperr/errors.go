// Package apperr holds the error taxonomy shared by every feature package.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation error")
	ErrConflict             = errors.New("conflict")
	ErrRateLimited          = errors.New("rate limited, retry later")
	ErrAlreadyInProgress    = errors.New("generation already in progress")
	ErrUnsupportedContent   = errors.New("unsupported content type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrMalformedModelOutput = errors.New("malformed model output")
	ErrSchemaValidation     = errors.New("model output failed schema validation")
	ErrNoValidQuestions     = errors.New("no valid questions in model output")
	ErrProviderClient       = errors.New("language model rejected the request")
	ErrProviderRateLimited  = errors.New("language model rate limited")
	ErrProviderTransient    = errors.New("language model unavailable")
	ErrQuizClosed           = errors.New("quiz is not accepting responses")
	ErrTimeLimitExceeded    = errors.New("time limit exceeded")
)

const excerptLimit = 200

// FieldError is a validation failure bound to one input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func Validation(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

// ExcerptError carries a truncated copy of the untrusted text that caused the failure.
type ExcerptError struct {
	Kind    error
	Detail  string
	Excerpt string
}

func (e *ExcerptError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Excerpt != "" {
		msg += fmt.Sprintf(" (excerpt: %q)", e.Excerpt)
	}
	return msg
}

func (e *ExcerptError) Unwrap() error { return e.Kind }

func WithExcerpt(kind error, detail, text string) error {
	return &ExcerptError{Kind: kind, Detail: detail, Excerpt: Truncate(text, excerptLimit)}
}

// Truncate cuts s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

// Forbidden is an Unauthorized error raised when the caller is known but is not the owner.
func Forbidden(what string) error {
	return fmt.Errorf("%w: %w: caller does not own this %s", ErrUnauthorized, ErrForbidden, what)
}

var kinds = []struct {
	err    error
	status int
	code   string
}{
	{ErrForbidden, http.StatusForbidden, "forbidden"},
	{ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{ErrNotFound, http.StatusNotFound, "not_found"},
	{ErrValidation, http.StatusBadRequest, "validation_error"},
	{ErrConflict, http.StatusConflict, "conflict"},
	{ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
	{ErrAlreadyInProgress, http.StatusConflict, "already_in_progress"},
	{ErrUnsupportedContent, http.StatusUnsupportedMediaType, "unsupported_content"},
	{ErrContentTooLarge, http.StatusRequestEntityTooLarge, "content_too_large"},
	{ErrMalformedModelOutput, http.StatusBadGateway, "malformed_model_output"},
	{ErrSchemaValidation, http.StatusBadGateway, "schema_validation_error"},
	{ErrNoValidQuestions, http.StatusUnprocessableEntity, "no_valid_questions"},
	{ErrProviderClient, http.StatusBadRequest, "provider_client_error"},
	{ErrProviderRateLimited, http.StatusTooManyRequests, "provider_rate_limited"},
	{ErrProviderTransient, http.StatusServiceUnavailable, "provider_unavailable"},
	{ErrQuizClosed, http.StatusForbidden, "quiz_closed"},
	{ErrTimeLimitExceeded, http.StatusForbidden, "time_limit_exceeded"},
}

func HTTPStatus(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "internal_error"
}

// Retryable reports whether the caller may retry the same request later without changing it.
func Retryable(err error) bool {
	return errors.Is(err, ErrProviderTransient) || errors.Is(err, ErrProviderRateLimited)
}
