package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RunLock is the lock contract shared by the Redis and in-memory variants
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}

var (
	_ RunLock = (*RedisRunLock)(nil)
	_ RunLock = (*InMemoryRunLock)(nil)
)

// RunLockFactory creates run locks based on configuration
type RunLockFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	connect               func(RedisConfig) (RunLock, error)
}

// RunLockFactoryOption is a functional option for configuring the factory
type RunLockFactoryOption func(*RunLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory lock when
// Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRunLockFactory creates a new factory
func NewRunLockFactory(cfg RedisConfig, opts ...RunLockFactoryOption) *RunLockFactory {
	f := &RunLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		connect: func(cfg RedisConfig) (RunLock, error) {
			return NewRedisRunLock(cfg)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLock returns a Redis lock when Redis is configured and reachable.
// Without a host, or when Redis is down and fallback is allowed, it returns an
// in-memory lock that only guards runs inside this process.
func (f *RunLockFactory) CreateLock() (RunLock, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("Redis not configured, using in-memory run lock")
		return NewInMemoryRunLock(), nil
	}

	lock, err := f.connect(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis run lock",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port),
		)
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for run lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory run lock. "+
		"Concurrent feedsync processes will not exclude each other.",
		zap.Error(err),
	)
	return NewInMemoryRunLock(), nil
}
