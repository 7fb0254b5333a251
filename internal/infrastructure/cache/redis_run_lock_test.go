package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewRedisRunLock_Unreachable(t *testing.T) {
	lock, err := NewRedisRunLock(RedisConfig{Host: "127.0.0.1", Port: 1})
	require.Error(t, err)
	assert.Nil(t, lock)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}

func TestNewRedisRunLockWithClient_DefaultPrefix(t *testing.T) {
	lock := NewRedisRunLockWithClient(unreachableClient(t), "")
	assert.Equal(t, DefaultRunLockPrefix, lock.keyPrefix)

	lock = NewRedisRunLockWithClient(unreachableClient(t), "custom:")
	assert.Equal(t, "custom:", lock.keyPrefix)
}

func TestRedisRunLock_TryLockError(t *testing.T) {
	lock := NewRedisRunLockWithClient(unreachableClient(t), "")

	ok, err := lock.TryLock(context.Background(), "facl", time.Minute)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), `failed to acquire run lock "facl"`)
	assert.Empty(t, lock.tokens)
}

func TestRedisRunLock_UnlockNotHeld(t *testing.T) {
	lock := NewRedisRunLockWithClient(unreachableClient(t), "")
	assert.ErrorIs(t, lock.Unlock(context.Background(), "facl"), ErrLockNotHeld)
}

func TestRedisRunLock_UnlockError(t *testing.T) {
	lock := NewRedisRunLockWithClient(unreachableClient(t), "")
	lock.tokens["facl"] = "token"

	err := lock.Unlock(context.Background(), "facl")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockNotHeld)
	assert.Empty(t, lock.tokens)
}
