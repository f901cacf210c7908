// Package llm wraps the language-model provider used for question generation and analysis.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
)

type Attachment struct {
	Data     []byte
	MIMEType string
}

type Request struct {
	System     string
	Prompt     string
	Attachment *Attachment
}

// Client returns the raw model text for a request, or an error classified with the provider kinds
// of apperr.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

func (f ClientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type unavailable struct{}

// Unavailable is used when no provider credentials are configured.
func Unavailable() Client { return unavailable{} }

func (unavailable) Generate(context.Context, Request) (string, error) {
	return "", fmt.Errorf("provider not configured: %w", apperr.ErrProviderTransient)
}

// ClassifyStatus maps an HTTP-like provider status to the error taxonomy.
func ClassifyStatus(status int, cause error) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", apperr.ErrProviderRateLimited, cause)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %v", apperr.ErrProviderClient, cause)
	default:
		return fmt.Errorf("%w: %v", apperr.ErrProviderTransient, cause)
	}
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return err
	}
	if status, ok := statusOf(err); ok {
		return ClassifyStatus(status, err)
	}
	return fmt.Errorf("%w: %v", apperr.ErrProviderTransient, err)
}
