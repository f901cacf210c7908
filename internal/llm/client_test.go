package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("upstream")

	assert.ErrorIs(t, ClassifyStatus(http.StatusTooManyRequests, cause), apperr.ErrProviderRateLimited)
	assert.ErrorIs(t, ClassifyStatus(http.StatusBadRequest, cause), apperr.ErrProviderClient)
	assert.ErrorIs(t, ClassifyStatus(http.StatusForbidden, cause), apperr.ErrProviderClient)
	assert.ErrorIs(t, ClassifyStatus(http.StatusInternalServerError, cause), apperr.ErrProviderTransient)
	assert.ErrorIs(t, ClassifyStatus(http.StatusServiceUnavailable, cause), apperr.ErrProviderTransient)
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("APIError", func(t *testing.T) {
		err := classify(ctx, genai.APIError{Code: 429, Message: "quota"})
		assert.ErrorIs(t, err, apperr.ErrProviderRateLimited)
	})

	t.Run("Unknown", func(t *testing.T) {
		err := classify(ctx, errors.New("dial tcp: timeout"))
		assert.ErrorIs(t, err, apperr.ErrProviderTransient)
	})

	t.Run("Canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := classify(cctx, context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, apperr.Retryable(err))
	})
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable().Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, apperr.ErrProviderTransient)
}
