package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbox/internal/database"
	"chatbox/internal/store"
)

func newTestRepo(t *testing.T) DocumentRepository {
	t.Helper()
	db, err := database.Init(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return NewDocumentRepository(db)
}

func TestDocumentRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.ReadDocument(ctx, store.DocumentName)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	require.NoError(t, repo.WriteDocument(ctx, store.DocumentName, []byte(`{"a":1}`)))
	require.NoError(t, repo.WriteDocument(ctx, store.DocumentName, []byte(`{"a":2}`)))

	data, err := repo.ReadDocument(ctx, store.DocumentName)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(data))

	names, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{store.DocumentName}, names)

	require.NoError(t, repo.Delete(ctx, store.DocumentName))
	_, err = repo.ReadDocument(ctx, store.DocumentName)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentRepository_EmptyName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.ReadDocument(ctx, "")
	assert.Error(t, err)
	assert.Error(t, repo.WriteDocument(ctx, "", nil))
}

func TestDocumentRepository_BacksStore(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	svc := store.NewService(store.Options{Backend: repo})
	require.NoError(t, svc.Write(ctx, "settings", map[string]string{"theme": "dark"}))

	reopened := store.NewService(store.Options{Backend: repo})
	reopened.Start(ctx)
	defer reopened.Stop(ctx)

	raw, ok := reopened.Read(ctx, "settings")
	require.True(t, ok)
	assert.JSONEq(t, `{"theme":"dark"}`, string(raw))
}
