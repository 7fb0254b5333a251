package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   []string
	}{
		{"nil", nil, nil},
		{
			"sorted pairs",
			map[string]string{"operator": "facl", "action": "GetProducts"},
			[]string{"action", "GetProducts", "operator", "facl"},
		},
		{
			"drops empty and high cardinality",
			map[string]string{"operation": "refresh", "feed_id": "f-1", "seller-sku": "SKU-1", "empty": ""},
			[]string{"operation", "refresh"},
		},
		{
			"normalizes keys",
			map[string]string{"Run Mode": "watch", "falabella.action": "GetOrder"},
			[]string{"falabella_action", "GetOrder", "run_mode", "watch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLabels(tt.labels)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeLabels_TruncatesValues(t *testing.T) {
	got := sanitizeLabels(map[string]string{"operation": strings.Repeat("x", MaxLabelValueLength+10)})
	assert.Len(t, got[1], MaxLabelValueLength)
}

func TestWithProfilingLabels(t *testing.T) {
	var (
		operation, operator string
		called              bool
	)
	WithProfilingLabels(context.Background(), SellerCenterOperationLabels("refresh_incomplete_feeds", "facl"), func(ctx context.Context) {
		called = true
		operation, _ = pprof.Label(ctx, ProfilingLabelOperation)
		operator, _ = pprof.Label(ctx, ProfilingLabelOperator)
	})

	assert.True(t, called)
	assert.Equal(t, "refresh_incomplete_feeds", operation)
	assert.Equal(t, "facl", operator)
}

func TestWithProfilingLabels_NoLabels(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), map[string]string{"feed_id": "f-1"}, func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, "feed_id")
		assert.False(t, ok)
	})
	assert.True(t, called)
}

func TestSellerCenterCallLabels(t *testing.T) {
	assert.Equal(t, map[string]string{
		ProfilingLabelAction:   "ProductCreate",
		ProfilingLabelOperator: "fape",
	}, SellerCenterCallLabels("ProductCreate", "fape"))
}
