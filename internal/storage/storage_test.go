package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, root, owner, ref string, data []byte) {
	t.Helper()
	full := filepath.Join(root, owner, ref)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestDiskStoreGet(t *testing.T) {
	root := t.TempDir()
	store := storage.NewDiskStore(root)
	ctx := context.Background()

	writeFile(t, root, "alice", "notes/chapter1.md", []byte("# Cells\nMitochondria are the powerhouse."))
	writeFile(t, root, "alice", "diagram.png", pngHeader)

	t.Run("Markdown", func(t *testing.T) {
		obj, err := store.Get(ctx, "alice", "notes/chapter1.md")
		require.NoError(t, err)
		assert.Equal(t, "text/markdown", obj.MIMEType)
		assert.Equal(t, "alice", obj.Owner)
	})

	t.Run("SniffedImage", func(t *testing.T) {
		obj, err := store.Get(ctx, "alice", "diagram.png")
		require.NoError(t, err)
		assert.Equal(t, "image/png", obj.MIMEType)
	})

	t.Run("OtherOwner", func(t *testing.T) {
		_, err := store.Get(ctx, "bob", "diagram.png")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("Traversal", func(t *testing.T) {
		_, err := store.Get(ctx, "bob", "../alice/diagram.png")
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = store.Get(ctx, "bob", "/etc/passwd")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := store.Get(ctx, "alice", "  ")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
