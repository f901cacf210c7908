package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/config"
)

// StaleGenerationAfter is how long a generating flag survives without being released before
// another run may take it over.
const StaleGenerationAfter = 10 * time.Minute

// Guard makes question generation single-flight per quiz. The flag lives on the quiz row, so it
// holds across processes sharing the database.
type Guard struct {
	repo QuizRepository
	now  func() time.Time
}

func NewGuard(repo QuizRepository) *Guard {
	return &Guard{repo: repo, now: time.Now}
}

// Acquire flips the quiz to generating or fails with apperr.ErrAlreadyInProgress. The returned
// release must be called exactly once, usually deferred. It resets the flag to idle unless a
// later run has taken the flag over in the meantime.
func (g *Guard) Acquire(ctx context.Context, quizID uuid.UUID) (func(), error) {
	// postgres keeps microseconds; the release matches on this exact value
	now := g.now().UTC().Truncate(time.Microsecond)
	ok, err := g.repo.TryStartGeneration(ctx, quizID, now, now.Add(-StaleGenerationAfter))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("quiz %s: %w", quizID, apperr.ErrAlreadyInProgress)
	}

	release := func() {
		// still runs when the request was cancelled mid-pipeline
		rctx := context.WithoutCancel(ctx)
		if err := g.repo.FinishGeneration(rctx, quizID, now); err != nil {
			config.WithContext(rctx).WithError(err).WithField("quiz_id", quizID).
				Error("Failed to release generation guard")
		}
	}
	return release, nil
}
