// Package ratelimit implements per-action, per-identity token buckets.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

type Action string

const (
	ActionCreateQuiz        Action = "quiz.create"
	ActionGenerateQuestions Action = "questions.generate"
	ActionGenerateAnalysis  Action = "analysis.generate"
)

// Policy is a bucket of Capacity tokens refilled continuously at PerSecond tokens per second.
type Policy struct {
	Capacity  int
	PerSecond float64
}

func PerHour(n int) float64   { return float64(n) / 3600 }
func PerMinute(n int) float64 { return float64(n) / 60 }

var DefaultPolicies = map[Action]Policy{
	ActionCreateQuiz:        {Capacity: 20, PerSecond: PerHour(60)},
	ActionGenerateQuestions: {Capacity: 3, PerSecond: PerMinute(2)},
	ActionGenerateAnalysis:  {Capacity: 3, PerSecond: PerMinute(2)},
}

// Gate consumes one token for (action, identity) or fails with apperr.ErrRateLimited without
// consuming anything.
type Gate interface {
	Check(ctx context.Context, action Action, identity string) error
}

func bucketKey(action Action, identity string) string {
	return string(action) + ":" + identity
}

func policyFor(policies map[Action]Policy, action Action) (Policy, error) {
	p, ok := policies[action]
	if !ok {
		return Policy{}, fmt.Errorf("ratelimit: no policy for action %q", action)
	}
	return p, nil
}

// refill returns the token count after elapsing from last to now, capped at capacity.
func refill(tokens float64, last, now time.Time, p Policy) float64 {
	elapsed := now.Sub(last).Seconds()
	if elapsed <= 0 {
		return math.Min(tokens, float64(p.Capacity))
	}
	return math.Min(float64(p.Capacity), tokens+elapsed*p.PerSecond)
}
