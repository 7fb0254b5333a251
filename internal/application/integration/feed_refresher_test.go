package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// MockFeedRefreshTarget is a mock implementation of FeedRefreshTarget
type MockFeedRefreshTarget struct {
	mock.Mock
}

func (m *MockFeedRefreshTarget) Country() integration.CountryContext {
	return integration.CountryContext{Country: integration.CountryChile, OperatorCode: "facl"}
}

func (m *MockFeedRefreshTarget) RefreshIncompleteFeeds(ctx context.Context, limit int) ([]*integration.FeedRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*integration.FeedRecord), args.Error(1)
}

type fakeRunLock struct {
	mu        sync.Mutex
	held      map[string]bool
	ttls      []time.Duration
	tryErr    error
	unlockErr error
	unlocks   int
}

func newFakeRunLock() *fakeRunLock {
	return &fakeRunLock{held: make(map[string]bool)}
}

func (l *fakeRunLock) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.tryErr != nil {
		return false, l.tryErr
	}
	l.ttls = append(l.ttls, ttl)
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeRunLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	delete(l.held, key)
	return l.unlockErr
}

func TestNewFeedRefresher_Defaults(t *testing.T) {
	r := NewFeedRefresher(&MockFeedRefreshTarget{}, newFakeRunLock(), FeedRefresherConfig{}, nil)
	assert.Equal(t, time.Minute, r.config.Interval)
	assert.Equal(t, 5*time.Minute, r.config.LockTTL)
	assert.Equal(t, "feeds:facl", r.lockKey())
}

func TestFeedRefresher_RunOnce(t *testing.T) {
	target := new(MockFeedRefreshTarget)
	records := []*integration.FeedRecord{{ID: 1, FeedID: "f-1", Status: integration.FeedStatusFinished}}
	target.On("RefreshIncompleteFeeds", mock.Anything, 25).Return(records, nil).Once()
	lock := newFakeRunLock()

	r := NewFeedRefresher(target, lock, FeedRefresherConfig{Limit: 25, LockTTL: time.Minute}, zap.NewNop())
	got, err := r.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, []time.Duration{time.Minute}, lock.ttls)
	assert.Equal(t, 1, lock.unlocks)
	assert.Empty(t, lock.held)
	target.AssertExpectations(t)
}

func TestFeedRefresher_RunOnce_LockHeld(t *testing.T) {
	target := new(MockFeedRefreshTarget)
	lock := newFakeRunLock()
	lock.held["feeds:facl"] = true

	r := NewFeedRefresher(target, lock, FeedRefresherConfig{}, zap.NewNop())
	_, err := r.RunOnce(context.Background())

	assert.ErrorIs(t, err, ErrRefreshInProgress)
	assert.Zero(t, lock.unlocks)
	target.AssertNotCalled(t, "RefreshIncompleteFeeds", mock.Anything, mock.Anything)
}

func TestFeedRefresher_RunOnce_LockError(t *testing.T) {
	target := new(MockFeedRefreshTarget)
	lock := newFakeRunLock()
	lock.tryErr = errors.New("redis down")

	r := NewFeedRefresher(target, lock, FeedRefresherConfig{}, zap.NewNop())
	_, err := r.RunOnce(context.Background())

	assert.EqualError(t, err, "redis down")
	target.AssertNotCalled(t, "RefreshIncompleteFeeds", mock.Anything, mock.Anything)
}

func TestFeedRefresher_RunOnce_RefreshErrorReleasesLock(t *testing.T) {
	target := new(MockFeedRefreshTarget)
	target.On("RefreshIncompleteFeeds", mock.Anything, 0).Return(nil, errors.New("feed f-2: boom")).Once()
	lock := newFakeRunLock()
	lock.unlockErr = errors.New("lock expired")

	r := NewFeedRefresher(target, lock, FeedRefresherConfig{}, zap.NewNop())
	_, err := r.RunOnce(context.Background())

	assert.EqualError(t, err, "feed f-2: boom")
	assert.Equal(t, 1, lock.unlocks)
	assert.Empty(t, lock.held)
}

func TestFeedRefresher_Run_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	target := new(MockFeedRefreshTarget)
	calls := make(chan struct{}, 10)
	target.On("RefreshIncompleteFeeds", mock.Anything, 0).
		Run(func(mock.Arguments) { calls <- struct{}{} }).
		Return([]*integration.FeedRecord{}, nil)

	r := NewFeedRefresher(target, newFakeRunLock(), FeedRefresherConfig{Interval: 10 * time.Millisecond}, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("refresh was not called")
		}
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFeedRefresher_Run_ContinuesAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	target := new(MockFeedRefreshTarget)
	calls := make(chan struct{}, 10)
	target.On("RefreshIncompleteFeeds", mock.Anything, 0).
		Run(func(mock.Arguments) { calls <- struct{}{} }).
		Return(nil, errors.New("platform unavailable"))

	r := NewFeedRefresher(target, newFakeRunLock(), FeedRefresherConfig{Interval: 10 * time.Millisecond}, zap.NewNop())
	go func() { _ = r.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("refresh loop stopped after a failure")
		}
	}
}
