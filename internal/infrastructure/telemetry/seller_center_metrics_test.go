package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// newTestMeter returns a meter backed by a manual reader.
func newTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestNewSellerCenterMetrics_NilMeter(t *testing.T) {
	_, err := NewSellerCenterMetrics(SellerCenterMetricsConfig{})
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestSellerCenterMetrics_RecordCall(t *testing.T) {
	mp, reader := newTestMeter(t)
	m, err := NewSellerCenterMetrics(SellerCenterMetricsConfig{Meter: mp.Meter("test")})
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordCall(ctx, "GetProducts", "facl", 120*time.Millisecond, nil)
	m.RecordCall(ctx, "GetProducts", "facl", 80*time.Millisecond, nil)
	m.RecordCall(ctx, "ProductRemove", "facl", time.Second, &integration.TransportError{StatusCode: 404})

	metrics := collect(t, reader)
	calls := metrics["falabella_calls_total"]
	assert.Equal(t, int64(2), sumByAttr(t, calls, "outcome", OutcomeSuccess))
	assert.Equal(t, int64(1), sumByAttr(t, calls, "outcome", OutcomeTransport))

	hist, ok := metrics["falabella_call_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestSellerCenterMetrics_RecordFeedStored(t *testing.T) {
	mp, reader := newTestMeter(t)
	m, err := NewSellerCenterMetrics(SellerCenterMetricsConfig{Meter: mp.Meter("test")})
	require.NoError(t, err)

	m.RecordFeedStored(context.Background(), integration.FeedActionProductCreate, integration.FeedStatusProcessing)
	m.RecordFeedStored(context.Background(), integration.FeedActionProductCreate, integration.FeedStatusFinished)

	stored := collect(t, reader)["falabella_feeds_stored_total"]
	assert.Equal(t, int64(2), sumByAttr(t, stored, "feed.action", integration.FeedActionProductCreate))
	assert.Equal(t, int64(1), sumByAttr(t, stored, "feed.status", "Finished"))
}

func TestCallOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeSuccess},
		{"transport", &integration.TransportError{StatusCode: 500}, OutcomeTransport},
		{"platform", fmt.Errorf("wrapped: %w", &integration.ErrorResponse{Code: 5}), OutcomePlatform},
		{"unavailable", fmt.Errorf("%w: dial tcp", integration.ErrPlatformUnavailable), OutcomeUnavailable},
		{"other", errors.New("boom"), OutcomeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CallOutcome(tt.err))
		})
	}
}

type fakeBacklog struct {
	calls  atomic.Int32
	counts map[string]int64
	err    error
}

func (f *fakeBacklog) CountIncompleteByAction(context.Context) (map[string]int64, error) {
	f.calls.Add(1)
	return f.counts, f.err
}

func TestSellerCenterMetrics_CollectBacklog(t *testing.T) {
	mp, reader := newTestMeter(t)
	backlog := &fakeBacklog{counts: map[string]int64{"ProductCreate": 4, "Image": 1}}
	m, err := NewSellerCenterMetrics(SellerCenterMetricsConfig{Meter: mp.Meter("test"), Backlog: backlog})
	require.NoError(t, err)

	m.CollectBacklog(context.Background())

	gauge, ok := collect(t, reader)["falabella_feeds_incomplete"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	values := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		v, _ := dp.Attributes.Value(AttrFeedAction)
		values[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ProductCreate": 4, "Image": 1}, values)
}

func TestSellerCenterMetrics_BacklogCollectionLifecycle(t *testing.T) {
	mp, _ := newTestMeter(t)
	backlog := &fakeBacklog{err: errors.New("db down")}
	m, err := NewSellerCenterMetrics(SellerCenterMetricsConfig{Meter: mp.Meter("test"), Backlog: backlog})
	require.NoError(t, err)

	m.StartBacklogCollection(context.Background(), time.Hour)
	m.StartBacklogCollection(context.Background(), time.Hour)
	assert.Eventually(t, func() bool { return backlog.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()
	assert.Equal(t, int32(1), backlog.calls.Load())
}
