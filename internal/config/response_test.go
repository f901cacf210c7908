package config_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields"`
}

func writeError(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	config.Error(rec, err)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestError(t *testing.T) {
	t.Run("Validation", func(t *testing.T) {
		rec, body := writeError(t, apperr.Validation("slug", "is taken"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "validation_error", body.Code)
		assert.Equal(t, map[string]string{"slug": "is taken"}, body.Fields)
		assert.False(t, body.Retryable)
		assert.Empty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("ProviderUnavailable", func(t *testing.T) {
		rec, body := writeError(t, fmt.Errorf("gemini: %w", apperr.ErrProviderTransient))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, body.Retryable)
		assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	})

	t.Run("ProviderRateLimited", func(t *testing.T) {
		rec, body := writeError(t, apperr.ErrProviderRateLimited)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.True(t, body.Retryable)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})

	t.Run("InternalHidden", func(t *testing.T) {
		rec, body := writeError(t, errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", body.Error)
		assert.Equal(t, "internal_error", body.Code)
	})
}
