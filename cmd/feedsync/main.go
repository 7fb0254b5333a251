// Command feedsync keeps the local feed store in step with Seller Center.
// It refreshes every stored feed that has not reached a final status, once
// or on an interval, and can look up a single feed by id.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appintegration "github.com/astroselling/falabella-sdk/internal/application/integration"
	"github.com/astroselling/falabella-sdk/internal/domain/integration"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/cache"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/config"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/ecommerce"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/logger"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/persistence"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	var (
		configPath string
		feedID     string
		once       bool
		interval   time.Duration
		limit      int
	)
	flag.StringVar(&configPath, "config", "", "Path to config.toml (default: search . and /etc/falabella-sdk)")
	flag.StringVar(&feedID, "feed", "", "Fetch and store the status of a single feed, then exit")
	flag.BoolVar(&once, "once", false, "Refresh incomplete feeds once, then exit")
	flag.DurationVar(&interval, "interval", 0, "Refresh interval (overrides feedsync.interval)")
	flag.IntVar(&limit, "limit", -1, "Feeds per run, 0 for all (overrides feedsync.limit)")
	flag.Parse()

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if interval > 0 {
		cfg.FeedSync.Interval = interval
	}
	if limit >= 0 {
		cfg.FeedSync.Limit = limit
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, feedID, once); err != nil {
		log.Error("feedsync failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, feedID string, once bool) error {
	ctx, log = logger.WithRunID(ctx, log, uuid.NewString())

	obs, log, err := setupObservability(ctx, cfg, log)
	defer func() {
		if err := obs.shutdown(shutdownTimeout); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}()
	if err != nil {
		return fmt.Errorf("failed to start telemetry: %w", err)
	}

	log.Info("Starting feedsync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("country", cfg.Falabella.Country),
	)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		return fmt.Errorf("failed to register database tracing: %w", err)
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, obs.meter, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.DBMetricsEnabled,
		SlowQueryThreshold: cfg.Database.SlowThreshold,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to register database metrics: %w", err)
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
		defer dbMetrics.Stop()
	}

	scMetrics, err := telemetry.NewSellerCenterMetrics(telemetry.SellerCenterMetricsConfig{
		Meter:   obs.meter.Meter("seller_center"),
		Logger:  log,
		Backlog: telemetry.NewGormFeedBacklogProvider(db.DB),
	})
	if err != nil {
		return fmt.Errorf("failed to create seller center metrics: %w", err)
	}
	if obs.meter.IsEnabled() && feedID == "" {
		scMetrics.StartBacklogCollection(ctx, cfg.Telemetry.BacklogInterval)
	}
	defer scMetrics.Stop()

	service, err := newService(cfg, db, scMetrics, log)
	if err != nil {
		return err
	}
	ctx, log = logger.WithOperator(ctx, log, service.Country().OperatorCode)

	if feedID != "" {
		return fetchFeed(ctx, service, feedID, log)
	}

	lockFactory := cache.NewRunLockFactory(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cache.WithLogger(log), cache.WithInMemoryFallback(cfg.App.Env != "production"))
	lock, err := lockFactory.CreateLock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Close() }()

	refresher := appintegration.NewFeedRefresher(service, lock, appintegration.FeedRefresherConfig{
		Interval: cfg.FeedSync.Interval,
		Limit:    cfg.FeedSync.Limit,
		LockTTL:  cfg.FeedSync.LockTTL,
	}, log)

	if once {
		var records []*integration.FeedRecord
		telemetry.WithProfilingLabels(ctx, telemetry.SellerCenterOperationLabels("refresh_incomplete_feeds", service.Country().OperatorCode),
			func(ctx context.Context) {
				records, err = refresher.RunOnce(ctx)
			})
		if errors.Is(err, appintegration.ErrRefreshInProgress) {
			log.Info("Another feedsync run holds the lock, skipping")
			return nil
		}
		printRecords(records)
		return err
	}

	log.Info("Refreshing feeds periodically", zap.Duration("interval", cfg.FeedSync.Interval))
	return refresher.Run(ctx)
}

// newService wires the Seller Center client and the feed store into the
// service facade
func newService(cfg *config.Config, db *persistence.Database, metrics *telemetry.SellerCenterMetrics, log *zap.Logger) (*appintegration.SellerCenterService, error) {
	fc := cfg.Falabella
	country := integration.CountryCode(fc.Country)

	clientCfg, err := ecommerce.NewFalabellaConfig(fc.UserID, fc.APIKey, fc.SellerID, country)
	if err != nil {
		return nil, err
	}
	if fc.Integrator != "" {
		clientCfg.Integrator = fc.Integrator
	}
	if fc.APIBaseURL != "" {
		clientCfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.TimeoutSeconds > 0 {
		clientCfg.TimeoutSeconds = fc.TimeoutSeconds
	}

	client, err := ecommerce.NewFalabellaClient(clientCfg, ecommerce.WithCallRecorder(metrics))
	if err != nil {
		return nil, err
	}

	return appintegration.NewSellerCenterService(appintegration.ServiceConfig{
		Username:       fc.UserID,
		APIKey:         fc.APIKey,
		Country:        country,
		SellerID:       fc.SellerID,
		CustomLogCalls: fc.CustomLogCalls,
	}, client, persistence.NewGormFeedRecordRepository(db.DB), log, appintegration.WithFeedObserver(metrics))
}

func fetchFeed(ctx context.Context, service *appintegration.SellerCenterService, feedID string, log *zap.Logger) error {
	record, err := service.GetFeedStatus(ctx, feedID)
	if err != nil {
		return err
	}
	log.Info("Feed stored", zap.String("feed_id", record.FeedID), zap.String("status", record.Status.String()))
	printRecords([]*integration.FeedRecord{record})
	return nil
}

func printRecords(records []*integration.FeedRecord) {
	for _, r := range records {
		fmt.Printf("%s\t%s\t%s\t%d/%d failed=%d\n",
			r.FeedID, r.Action, r.Status, r.ProcessedRecords, r.TotalRecords, r.FailedRecords)
	}
}
