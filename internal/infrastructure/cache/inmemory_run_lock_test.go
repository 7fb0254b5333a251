package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLock_TryLock(t *testing.T) {
	ctx := context.Background()

	t.Run("acquires a free key", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		ok, err := lock.TryLock(ctx, "facl", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects a held key", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		ok, err := lock.TryLock(ctx, "facl", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = lock.TryLock(ctx, "facl", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		ok, _ := lock.TryLock(ctx, "facl", time.Minute)
		require.True(t, ok)
		ok, _ = lock.TryLock(ctx, "fape", time.Minute)
		assert.True(t, ok)
		assert.Equal(t, 2, lock.Size())
	})

	t.Run("reacquires after expiry", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		lock.now = func() time.Time { return now }

		ok, _ := lock.TryLock(ctx, "facl", time.Minute)
		require.True(t, ok)

		now = now.Add(2 * time.Minute)
		ok, err := lock.TryLock(ctx, "facl", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryRunLock_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("releases a held key", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		ok, _ := lock.TryLock(ctx, "facl", time.Minute)
		require.True(t, ok)

		require.NoError(t, lock.Unlock(ctx, "facl"))
		assert.Equal(t, 0, lock.Size())

		ok, _ = lock.TryLock(ctx, "facl", time.Minute)
		assert.True(t, ok)
	})

	t.Run("unknown key", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		assert.ErrorIs(t, lock.Unlock(ctx, "facl"), ErrLockNotHeld)
	})

	t.Run("expired key", func(t *testing.T) {
		lock := NewInMemoryRunLock()
		now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		lock.now = func() time.Time { return now }

		ok, _ := lock.TryLock(ctx, "facl", time.Second)
		require.True(t, ok)
		now = now.Add(time.Minute)

		assert.ErrorIs(t, lock.Unlock(ctx, "facl"), ErrLockNotHeld)
	})
}

func TestInMemoryRunLock_Concurrent(t *testing.T) {
	lock := NewInMemoryRunLock()
	defer lock.Close()

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := lock.TryLock(context.Background(), "facl", time.Minute); ok {
				acquired.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
}
