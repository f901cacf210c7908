package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardTakeoverRelease(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	q := &Quiz{ID: uuid.New(), OwnerID: "owner-1", Name: "Cells", Slug: "cells-abc123"}
	require.NoError(t, repo.Create(ctx, q))

	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	guard := NewGuard(repo)
	guard.now = func() time.Time { return clock }

	releaseA, err := guard.Acquire(ctx, q.ID)
	require.NoError(t, err)

	clock = clock.Add(StaleGenerationAfter + time.Minute)
	releaseB, err := guard.Acquire(ctx, q.ID)
	require.NoError(t, err, "stale run should be taken over")

	releaseA()
	_, err = guard.Acquire(ctx, q.ID)
	assert.ErrorIs(t, err, apperr.ErrAlreadyInProgress)

	stored, err := repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, GenerationInProgress, stored.GenerationStatus)

	releaseB()
	stored, err = repo.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, GenerationIdle, stored.GenerationStatus)
}
