package aiquiz_test

import (
	"testing"

	"github.com/saulo-duarte/quizforge-lambda/internal/aiquiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArrayLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare array", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "Here you go:\n```json\n[{\"a\":1}]\n```\nEnjoy", `[{"a":1}]`},
		{"plain fence", "```\n[1, 2]\n```", `[1, 2]`},
		{"prose around brackets", `Sure! [{"a":[1]}] hope it helps`, `[{"a":[1]}]`},
		{"fence without array falls back", "```\nnot json\n``` then [3]", `[3]`},
		{"spans first to last bracket", `[1] and [2]`, `[1] and [2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aiquiz.ExtractArrayLiteral(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "no brackets here", `{"a":1}`, "] before ["} {
		_, err := aiquiz.ExtractArrayLiteral(bad)
		assert.ErrorIs(t, err, aiquiz.ErrNoArrayLiteral, bad)
	}
}
