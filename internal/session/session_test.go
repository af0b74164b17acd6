package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/teamsync/internal/models"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)

	got, err := store.Get(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.True(t, got.ExpiresAt.After(time.Now()))

	other, err := store.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEqual(t, s.Token, other.Token, "each login gets its own token")

	require.NoError(t, store.Delete(ctx, s.Token))
	_, err = store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = store.Get(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	s, err := store.Create(ctx, "user-1")
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = store.Get(ctx, s.Token)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, s.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestRedisStore runs against a real server when TEAMSYNC_TEST_REDIS_URL is set
func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEAMSYNC_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEAMSYNC_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(client, time.Minute))
}
