package telemetry

import (
	"context"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelOperation = "operation"
	ProfilingLabelOperator  = "operator"
	ProfilingLabelAction    = "action"
	ProfilingLabelRunMode   = "run_mode"
)

// MaxLabelValueLength caps label values so profiles stay small.
const MaxLabelValueLength = 128

// HighCardinalityLabels are dropped from profiling labels. Feed ids, SKUs and
// order ids change on every call.
var HighCardinalityLabels = map[string]bool{
	"feed_id":    true,
	"seller_sku": true,
	"order_id":   true,
	"request_id": true,
	"run_id":     true,
	"trace_id":   true,
	"span_id":    true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to its goroutine.
// Empty and high-cardinality labels are dropped; the map is not retained.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// SellerCenterOperationLabels labels a service operation for one storefront.
func SellerCenterOperationLabels(operation, operatorCode string) map[string]string {
	return map[string]string{
		ProfilingLabelOperation: operation,
		ProfilingLabelOperator:  operatorCode,
	}
}

// SellerCenterCallLabels labels a single Seller Center action.
func SellerCenterCallLabels(action, operatorCode string) map[string]string {
	return map[string]string{
		ProfilingLabelAction:   action,
		ProfilingLabelOperator: operatorCode,
	}
}

// sanitizeLabels returns key/value pairs sorted by key, with keys in
// snake_case and values truncated to MaxLabelValueLength.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	clean := make(map[string]string, len(labels))
	for key, value := range labels {
		key = sanitizeLabelKey(key)
		if key == "" || value == "" || HighCardinalityLabels[key] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		clean[key] = value
	}

	keys := make([]string, 0, len(clean))
	for k := range clean {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, key, clean[key])
	}
	return pairs
}

func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(key)

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
