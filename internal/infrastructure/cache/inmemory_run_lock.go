package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryRunLock is a run lock local to one process
type InMemoryRunLock struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

// NewInMemoryRunLock creates an empty in-memory run lock
func NewInMemoryRunLock() *InMemoryRunLock {
	return &InMemoryRunLock{
		locks: make(map[string]time.Time),
		now:   time.Now,
	}
}

// TryLock acquires key for ttl unless an unexpired holder exists
func (l *InMemoryRunLock) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expiresAt, held := l.locks[key]; held && now.Before(expiresAt) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)
	return true, nil
}

// Unlock releases key
func (l *InMemoryRunLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiresAt, held := l.locks[key]
	delete(l.locks, key)
	if !held || !l.now().Before(expiresAt) {
		return ErrLockNotHeld
	}
	return nil
}

// Close is a no-op
func (l *InMemoryRunLock) Close() error {
	return nil
}

// Size returns the number of tracked keys, expired ones included
func (l *InMemoryRunLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
