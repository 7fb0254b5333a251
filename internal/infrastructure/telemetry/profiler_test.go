package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
		want error
	}{
		{"missing server", ProfilerConfig{Enabled: true, ApplicationName: "feedsync"}, ErrProfilerMissingServer},
		{"missing application", ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, ErrProfilerMissingApplication},
		{"unknown profile", ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://pyroscope:4040",
			ApplicationName: "feedsync",
			ProfileTypes:    []string{"cpu", "heap"},
		}, ErrUnknownProfileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, p)
		})
	}
}

func TestParseProfileTypes(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		types, err := ParseProfileTypes(nil)
		require.NoError(t, err)
		assert.ElementsMatch(t, []pyroscope.ProfileType{
			pyroscope.ProfileCPU, pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace, pyroscope.ProfileGoroutines,
		}, types)
	})

	t.Run("normalizes and deduplicates", func(t *testing.T) {
		types, err := ParseProfileTypes([]string{" CPU ", "cpu", "mutex_count"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileMutexCount}, types)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := ParseProfileTypes([]string{"wall"})
		assert.ErrorIs(t, err, ErrUnknownProfileType)
		assert.Contains(t, err.Error(), `"wall"`)
	})
}
