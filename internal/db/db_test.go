package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisFromClient(client, "test:")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqlite, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	r, _ := newRedis(t)
	return map[string]Store{"sqlite": sqlite, "redis": r}
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, s.Set(ctx, "k", `[{"id":"1"}]`))
			val, found, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"1"}]`, val)

			require.NoError(t, s.Set(ctx, "k", "[]"))
			val, _, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "[]", val)

			require.NoError(t, s.Delete(ctx, "k"))
			_, found, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, found)

			// deleting again is a no-op
			require.NoError(t, s.Delete(ctx, "k"))
		})
	}
}

func TestStoreEmptyValueIsFound(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "empty", ""))
			val, found, err := s.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Empty(t, val)
		})
	}
}

func TestRedisPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedis(t)

	require.NoError(t, store.Set(ctx, "ai-notes-todos", "[]"))
	got, err := mr.Get("test:ai-notes-todos")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
	assert.False(t, mr.Exists("ai-notes-todos"))
}

func TestNewCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	database, err := New(dir)
	require.NoError(t, err)
	defer database.Close()

	require.FileExists(t, filepath.Join(dir, "ainotes.db"))
}

func TestDefaultDataDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	dir, err := DefaultDataDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "ainotes"), dir)
}
