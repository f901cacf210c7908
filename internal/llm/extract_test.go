package llm_test

import (
	"testing"

	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/stretchr/testify/assert"
)

func TestExtractLiteral(t *testing.T) {
	got, ok := llm.ExtractLiteral("```json\n{\"a\": [1]}\n```", '{', '}')
	assert.True(t, ok)
	assert.Equal(t, `{"a": [1]}`, got)

	got, ok = llm.ExtractLiteral(`Result: {"a": 1} done`, '{', '}')
	assert.True(t, ok)
	assert.Equal(t, `{"a": 1}`, got)

	got, ok = llm.ExtractLiteral("```\n[1]\n```", '{', '}')
	assert.False(t, ok)
	assert.Empty(t, got)

	_, ok = llm.ExtractLiteral("} {", '{', '}')
	assert.False(t, ok)
}
