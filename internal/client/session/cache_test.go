package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/snipai/snipai/internal/client/models"
	"github.com/snipai/snipai/internal/client/storage"
	"github.com/snipai/snipai/internal/common"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, *sql.DB) {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "snipai.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCache(db), db
}

func TestCache_LoadEmpty(t *testing.T) {
	cache, _ := setupCache(t)

	_, err := cache.Load(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	id := models.Identity{ID: "user-1", Name: "Ada", Email: "ada@example.com", SessionToken: "tok-1"}
	require.NoError(t, cache.Save(ctx, id))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestCache_SaveReplacesPrevious(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, models.Identity{ID: "user-1", SessionToken: "tok-1"}))
	require.NoError(t, cache.Save(ctx, models.Identity{ID: "user-2", SessionToken: "tok-2"}))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-2", got.ID)
	require.Equal(t, "tok-2", got.SessionToken)

	var n int
	require.NoError(t, cache.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n))
	require.Equal(t, 1, n, "the session table holds at most one row")
}

func TestCache_Clear(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, models.Identity{ID: "user-1", SessionToken: "tok-1"}))
	require.NoError(t, cache.Clear(ctx))

	_, err := cache.Load(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, cache.Clear(ctx), "clearing an empty cache is a no-op")
}
