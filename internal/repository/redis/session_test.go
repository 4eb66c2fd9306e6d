package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, ttl), mr
}

func TestSessionStore_SetThenGet(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:abc", []byte(`{"lines":[]}`)))

	data, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[]}`, string(data))
	assert.Equal(t, time.Hour, mr.TTL("cart:abc"))
}

func TestSessionStore_Get_Missing(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)

	_, err := store.Get(context.Background(), "cart:nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_Set_Overwrites(t *testing.T) {
	store, _ := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:abc", []byte("one")))
	require.NoError(t, store.Set(ctx, "cart:abc", []byte("two")))

	data, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))
}

func TestSessionStore_Expiry(t *testing.T) {
	store, mr := setupTestRedis(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:abc", []byte("x")))
	mr.FastForward(31 * time.Minute)

	_, err := store.Get(ctx, "cart:abc")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_SetRefreshesTTL(t *testing.T) {
	store, mr := setupTestRedis(t, 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:abc", []byte("x")))
	mr.FastForward(20 * time.Minute)
	require.NoError(t, store.Set(ctx, "cart:abc", []byte("y")))
	mr.FastForward(20 * time.Minute)

	data, err := store.Get(ctx, "cart:abc")
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}

func TestSessionStore_ZeroTTLPersists(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	require.NoError(t, store.Set(context.Background(), "cart:abc", []byte("x")))
	assert.Equal(t, time.Duration(0), mr.TTL("cart:abc"))
}

func TestSessionStore_Unavailable(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	_, err := store.Get(context.Background(), "cart:abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	err = store.Set(context.Background(), "cart:abc", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set")
}
