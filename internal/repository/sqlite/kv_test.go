package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/capacity-planner/internal/domain/persistence"
	"github.com/cmlabs-hris/capacity-planner/internal/pkg/database"
)

func newRepo(t *testing.T, path string) persistence.Repository {
	t.Helper()
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewKVRepository(ctx, db)
	require.NoError(t, err)
	return repo
}

func TestKVRepository(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, filepath.Join(t.TempDir(), "planner.sqlite"))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	require.NoError(t, repo.Set(ctx, "a", `{"x":1}`))
	require.NoError(t, repo.Set(ctx, "a", `{"x":2}`))
	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, got)

	require.NoError(t, repo.SetMany(ctx, map[string]string{"a": "1", "b": "2"}))
	got, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestKVRepositorySurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "planner.sqlite")

	first := newRepo(t, path)
	require.NoError(t, first.Set(ctx, "k", "v"))

	second := newRepo(t, path)
	got, err := second.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
