package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampledContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	base := zap.NewExample()
	assert.Same(t, base, FromContext(WithContext(context.Background(), base)))
}

func TestWithRunIDAndOperator(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, l := WithRunID(context.Background(), zap.New(core), "run-1")
	ctx, l = WithOperator(ctx, l, "facl")
	l.Info("Feed refresh finished")

	assert.Equal(t, "run-1", GetRunID(ctx))
	assert.Equal(t, "facl", GetOperator(ctx))
	assert.Same(t, l, FromContext(ctx))

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, "facl", fields["operator"])
}

func TestGetters_Empty(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))
	assert.Empty(t, GetOperator(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	assert.Same(t, base, WithTraceContext(context.Background(), base))

	WithTraceContext(sampledContext(t), base).Info("correlated")
	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestL(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(sampledContext(t), zap.New(core))
	ctx, _ = WithRunID(ctx, FromContext(ctx), "run-9")

	L(ctx).Info("Feed stored", zap.String("feed_id", "f-1"))

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "run-9", fields["run_id"])
	assert.Equal(t, "f-1", fields["feed_id"])
	assert.Contains(t, fields, "trace_id")
}
