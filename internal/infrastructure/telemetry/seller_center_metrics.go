package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// ErrMeterNil is returned when SellerCenterMetrics is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// defaultBacklogInterval is used when the collection interval is not positive
const defaultBacklogInterval = 5 * time.Minute

// Call outcomes recorded on falabella_calls_total
const (
	OutcomeSuccess     = "success"
	OutcomeTransport   = "transport_error"
	OutcomePlatform    = "platform_error"
	OutcomeUnavailable = "unavailable"
	OutcomeOther       = "error"
)

// FeedBacklogProvider reports how many stored feeds are still pending, per feed action.
type FeedBacklogProvider interface {
	CountIncompleteByAction(ctx context.Context) (map[string]int64, error)
}

// SellerCenterMetrics records Seller Center call volume and latency plus the
// feed bookkeeping done on top of it.
type SellerCenterMetrics struct {
	logger *zap.Logger

	callsTotal      *Counter
	callDuration    *Histogram
	feedsStored     *Counter
	incompleteFeeds *Gauge

	backlog     FeedBacklogProvider
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// SellerCenterMetricsConfig holds the collaborators of SellerCenterMetrics.
type SellerCenterMetricsConfig struct {
	Meter   metric.Meter
	Logger  *zap.Logger
	Backlog FeedBacklogProvider
}

// NewSellerCenterMetrics creates the instruments on cfg.Meter.
func NewSellerCenterMetrics(cfg SellerCenterMetricsConfig) (*SellerCenterMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &SellerCenterMetrics{
		logger:   logger,
		backlog:  cfg.Backlog,
		stopChan: make(chan struct{}),
	}

	var err error
	if m.callsTotal, err = NewCounter(cfg.Meter,
		"falabella_calls_total",
		"Seller Center calls by action and outcome",
		"{calls}"); err != nil {
		return nil, err
	}
	if m.callDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "falabella_call_duration_seconds",
		Description: "Seller Center round trip latency",
		Unit:        "s",
		Boundaries:  CallDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.feedsStored, err = NewCounter(cfg.Meter,
		"falabella_feeds_stored_total",
		"Feed statuses written to the local store",
		"{feeds}"); err != nil {
		return nil, err
	}
	if m.incompleteFeeds, err = NewGauge(cfg.Meter,
		"falabella_feeds_incomplete",
		"Stored feeds that have not reached a final status",
		"{feeds}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCall records one Seller Center round trip.
func (m *SellerCenterMetrics) RecordCall(ctx context.Context, action, operator string, d time.Duration, err error) {
	attrs := []attribute.KeyValue{AttrAction.String(action), AttrOperator.String(operator)}
	m.callsTotal.Inc(ctx, append(attrs, AttrOutcome.String(CallOutcome(err)))...)
	m.callDuration.RecordDuration(ctx, d, attrs...)
}

// RecordFeedStored counts a feed status written by the service.
func (m *SellerCenterMetrics) RecordFeedStored(ctx context.Context, action string, status integration.FeedStatus) {
	m.feedsStored.Inc(ctx, AttrFeedAction.String(action), AttrFeedStatus.String(status.String()))
}

// CallOutcome classifies a call error for metric labels.
func CallOutcome(err error) string {
	var (
		transportErr *integration.TransportError
		errResp      *integration.ErrorResponse
	)
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &transportErr):
		return OutcomeTransport
	case errors.As(err, &errResp):
		return OutcomePlatform
	case errors.Is(err, integration.ErrPlatformUnavailable):
		return OutcomeUnavailable
	default:
		return OutcomeOther
	}
}

// StartBacklogCollection samples the feed backlog every interval until Stop
// is called or ctx is done. It is a no-op without a backlog provider.
func (m *SellerCenterMetrics) StartBacklogCollection(ctx context.Context, interval time.Duration) {
	if m.backlog == nil {
		return
	}
	m.collectOnce.Do(func() {
		if interval <= 0 {
			interval = defaultBacklogInterval
		}
		m.wg.Add(1)
		go m.runBacklogCollection(ctx, interval)
	})
}

func (m *SellerCenterMetrics) runBacklogCollection(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.CollectBacklog(ctx)
	for {
		select {
		case <-m.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CollectBacklog(ctx)
		}
	}
}

// CollectBacklog records the current incomplete feed counts once.
func (m *SellerCenterMetrics) CollectBacklog(ctx context.Context) {
	if m.backlog == nil {
		return
	}
	counts, err := m.backlog.CountIncompleteByAction(ctx)
	if err != nil {
		m.logger.Warn("Failed to count incomplete feeds", zap.Error(err))
		return
	}
	for action, count := range counts {
		m.incompleteFeeds.Record(ctx, count, AttrFeedAction.String(action))
	}
}

// Stop ends backlog collection and waits for the collector to exit.
func (m *SellerCenterMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
}
