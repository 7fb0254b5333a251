package integration

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// ErrRefreshInProgress is returned when another run holds the refresh lock
var ErrRefreshInProgress = errors.New("integration: feed refresh already in progress")

// RunLock guards a refresh run across processes
type RunLock interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// FeedRefreshTarget is the part of SellerCenterService the refresher drives
type FeedRefreshTarget interface {
	Country() integration.CountryContext
	RefreshIncompleteFeeds(ctx context.Context, limit int) ([]*integration.FeedRecord, error)
}

var _ FeedRefreshTarget = (*SellerCenterService)(nil)

// FeedRefresherConfig tunes the refresh loop
type FeedRefresherConfig struct {
	// Interval between runs in Run
	Interval time.Duration
	// Limit caps feeds per run; zero or negative refreshes all
	Limit int
	// LockTTL bounds how long a crashed run blocks the next one
	LockTTL time.Duration
}

func (c *FeedRefresherConfig) applyDefaults() {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 5 * time.Minute
	}
}

// FeedRefresher periodically refreshes incomplete feeds, one run at a time
// per storefront
type FeedRefresher struct {
	target FeedRefreshTarget
	lock   RunLock
	config FeedRefresherConfig
	logger *zap.Logger
}

// NewFeedRefresher creates a refresher for target
func NewFeedRefresher(target FeedRefreshTarget, lock RunLock, cfg FeedRefresherConfig, logger *zap.Logger) *FeedRefresher {
	cfg.applyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedRefresher{
		target: target,
		lock:   lock,
		config: cfg,
		logger: logger.Named("feed_refresher"),
	}
}

// lockKey is per operator so storefronts refresh independently
func (r *FeedRefresher) lockKey() string {
	return "feeds:" + r.target.Country().OperatorCode
}

// RunOnce performs a single refresh under the run lock
func (r *FeedRefresher) RunOnce(ctx context.Context) ([]*integration.FeedRecord, error) {
	key := r.lockKey()
	ok, err := r.lock.TryLock(ctx, key, r.config.LockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRefreshInProgress
	}
	defer func() {
		// the run's ctx may already be cancelled
		if err := r.lock.Unlock(context.WithoutCancel(ctx), key); err != nil {
			r.logger.Warn("Failed to release refresh lock", zap.String("key", key), zap.Error(err))
		}
	}()

	started := time.Now()
	records, err := r.target.RefreshIncompleteFeeds(ctx, r.config.Limit)
	r.logger.Info("Feed refresh finished",
		zap.String("operator", r.target.Country().OperatorCode),
		zap.Int("refreshed", len(records)),
		zap.Duration("duration", time.Since(started)),
		zap.Error(err),
	)
	return records, err
}

// Run refreshes immediately and then every Interval until ctx is done.
// Per-run failures are logged and do not stop the loop.
func (r *FeedRefresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		if _, err := r.RunOnce(ctx); err != nil {
			if errors.Is(err, ErrRefreshInProgress) {
				r.logger.Debug("Skipping refresh, another run holds the lock")
			} else if ctx.Err() == nil {
				r.logger.Warn("Feed refresh failed", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
