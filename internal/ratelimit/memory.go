package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"golang.org/x/time/rate"
)

type memoryGate struct {
	mu       sync.Mutex
	policies map[Action]Policy
	buckets  map[string]*rate.Limiter
	now      func() time.Time
}

// NewMemoryGate keeps buckets in process memory. Suitable for a single long-lived instance.
func NewMemoryGate(policies map[Action]Policy) Gate {
	return newMemoryGate(policies, time.Now)
}

func newMemoryGate(policies map[Action]Policy, now func() time.Time) *memoryGate {
	return &memoryGate{
		policies: policies,
		buckets:  make(map[string]*rate.Limiter),
		now:      now,
	}
}

func (g *memoryGate) Check(ctx context.Context, action Action, identity string) error {
	p, err := policyFor(g.policies, action)
	if err != nil {
		return err
	}

	g.mu.Lock()
	key := bucketKey(action, identity)
	lim, ok := g.buckets[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(p.PerSecond), p.Capacity)
		g.buckets[key] = lim
	}
	g.mu.Unlock()

	if !lim.AllowN(g.now(), 1) {
		return fmt.Errorf("%s: %w", action, apperr.ErrRateLimited)
	}
	return nil
}
