package artifact

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisStore creates a store connected to a miniredis instance.
func setupRedisStore(t *testing.T, retention time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	err := mr.Start()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := NewRedisStore(&redis.Options{Addr: mr.Addr()}, retention)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore_StageAndFetch(t *testing.T) {
	store, _ := setupRedisStore(t, 0)
	ctx := context.Background()

	payload := []byte("%PDF-1.4 generated report\x00\x01binary")
	id, err := store.Stage(ctx, payload, "pdf", "finance")
	require.NoError(t, err)

	rec, err := store.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "pdf", rec.Kind)
	assert.Equal(t, "finance", rec.Domain)
	assert.Equal(t, payload, rec.Bytes)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
}

func TestRedisStore_FetchUnknownID(t *testing.T) {
	store, _ := setupRedisStore(t, 0)

	_, err := store.Fetch(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_RetentionExpiry(t *testing.T) {
	store, mr := setupRedisStore(t, time.Hour)
	ctx := context.Background()

	id, err := store.Stage(ctx, []byte("short-lived"), "report:csv", "reports")
	require.NoError(t, err)

	// Still present inside the retention window.
	_, err = store.Fetch(ctx, id)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = store.Fetch(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_NoRetentionKeepsRecords(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	ctx := context.Background()

	id, err := store.Stage(ctx, []byte("kept"), "pdf", "finance")
	require.NoError(t, err)

	mr.FastForward(24 * time.Hour)

	rec, err := store.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), rec.Bytes)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := setupRedisStore(t, 0)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
