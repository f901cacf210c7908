package quiz_test

import (
	"testing"
	"time"

	"github.com/saulo-duarte/quizforge-lambda/internal/quiz"
	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestIsAvailable(t *testing.T) {
	t1 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)

	tests := []struct {
		name      string
		accepting bool
		start     *time.Time
		end       *time.Time
		now       time.Time
		want      bool
	}{
		{"closed flag ignores open window", false, nil, nil, t1, false},
		{"closed flag inside window", false, ptr(t1), ptr(t2), t1.Add(time.Minute), false},
		{"open without bounds", true, nil, nil, t1, true},
		{"before start", true, ptr(t1), ptr(t2), t1.Add(-time.Nanosecond), false},
		{"exactly at start", true, ptr(t1), ptr(t2), t1, true},
		{"inside window", true, ptr(t1), ptr(t2), t1.Add(time.Hour), true},
		{"exactly at end", true, ptr(t1), ptr(t2), t2, true},
		{"after end", true, ptr(t1), ptr(t2), t2.Add(time.Nanosecond), false},
		{"only start, later", true, ptr(t1), nil, t2.Add(24 * time.Hour), true},
		{"only end, earlier", true, nil, ptr(t2), t1.Add(-24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quiz.IsAvailable(tt.accepting, tt.start, tt.end, tt.now))
		})
	}
}

func TestWindowAt(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	q := &quiz.Quiz{AcceptingResponses: true, StartTime: &start, EndTime: &end}

	t.Run("not started", func(t *testing.T) {
		w := q.WindowAt(start.Add(-90 * time.Second))
		assert.False(t, w.Available)
		assert.Equal(t, quiz.WindowNotStarted, w.State)
		if assert.NotNil(t, w.OpensIn) {
			assert.Equal(t, int64(90), *w.OpensIn)
		}
	})

	t.Run("open", func(t *testing.T) {
		w := q.WindowAt(start.Add(30 * time.Minute))
		assert.True(t, w.Available)
		assert.Equal(t, quiz.WindowOpen, w.State)
		if assert.NotNil(t, w.ClosesIn) {
			assert.Equal(t, int64(1800), *w.ClosesIn)
		}
	})

	t.Run("ended", func(t *testing.T) {
		w := q.WindowAt(end.Add(time.Second))
		assert.Equal(t, quiz.WindowEnded, w.State)
	})

	t.Run("manually closed", func(t *testing.T) {
		closed := *q
		closed.AcceptingResponses = false
		w := closed.WindowAt(start.Add(time.Minute))
		assert.False(t, w.Available)
		assert.Equal(t, quiz.WindowClosed, w.State)
	})
}
