package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDetectOperationType(t *testing.T) {
	tests := map[string]string{
		"SELECT * FROM falabella_feeds":         "SELECT",
		"  insert into falabella_feeds values ()": "INSERT",
		"UPDATE falabella_feeds SET status = ?":   "UPDATE",
		"delete from falabella_feeds":             "DELETE",
		"CREATE TABLE x (id int)":                 "OTHER",
		"":                                        "OTHER",
	}
	for query, want := range tests {
		assert.Equal(t, want, detectOperationType(query), query)
	}
}

func TestDBMetricsPlugin(t *testing.T) {
	mp, reader := newTestMeter(t)
	db := newTestDB(t)

	metrics, err := NewDBMetrics(mp.Meter("db.client"), nil, DBMetricsConfig{SlowQueryThreshold: time.Hour}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Use(NewDBMetricsPlugin(metrics)))

	type feedRow struct {
		ID     uint
		FeedID string
	}
	require.NoError(t, db.Exec("CREATE TABLE feed_rows (id integer primary key, feed_id text)").Error)
	require.NoError(t, db.Create(&feedRow{FeedID: "f-1"}).Error)

	var rows []feedRow
	require.NoError(t, db.Find(&rows).Error)

	queries := collect(t, reader)["db_query_total"]
	assert.Equal(t, int64(1), sumByAttr(t, queries, "db.operation", "INSERT"))
	assert.Equal(t, int64(1), sumByAttr(t, queries, "db.operation", "SELECT"))
	assert.Equal(t, int64(1), sumByAttr(t, queries, "db.operation", "OTHER"))
}

func TestDBMetrics_SlowQuery(t *testing.T) {
	mp, reader := newTestMeter(t)
	metrics, err := NewDBMetrics(mp.Meter("db.client"), nil, DBMetricsConfig{SlowQueryThreshold: time.Millisecond}, nil)
	require.NoError(t, err)

	metrics.RecordQuery(context.Background(), "select", "falabella_feeds", time.Second)
	metrics.RecordQuery(context.Background(), "", "", time.Second)

	collected := collect(t, reader)
	assert.Equal(t, int64(1), sumByAttr(t, collected["db_query_total"], "db.operation", "SELECT"))
	assert.Equal(t, int64(1), sumByAttr(t, collected["db_query_total"], "db.operation", "UNKNOWN"))
	assert.Equal(t, int64(1), sumByAttr(t, collected["db_slow_query_total"], "db.table", "falabella_feeds"))
	assert.Equal(t, int64(1), sumByAttr(t, collected["db_slow_query_total"], "db.table", "unknown"))
}

func TestDBMetrics_PoolStats(t *testing.T) {
	mp, _ := newTestMeter(t)
	db := newTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	metrics, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, DBMetricsConfig{PoolStatsInterval: time.Hour}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	metrics.StartPoolStatsCollection(ctx)
	cancel()
	metrics.Stop()
	metrics.Stop()
}

func TestRegisterDBMetrics_Disabled(t *testing.T) {
	db := newTestDB(t)
	metrics, err := RegisterDBMetrics(db, &MeterProvider{}, DBMetricsConfig{Enabled: true}, nil)
	assert.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, nil))
}

func TestRegisterDBTracing(t *testing.T) {
	db := newTestDB(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	assert.NoError(t, db.Exec("SELECT 1").Error)
}
