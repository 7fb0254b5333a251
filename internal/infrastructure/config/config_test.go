package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SELLERCENTER_APP_ENV",
		"SELLERCENTER_FALABELLA_USER_ID",
		"SELLERCENTER_FALABELLA_API_KEY",
		"SELLERCENTER_FALABELLA_COUNTRY",
		"SELLERCENTER_FALABELLA_CUSTOM_LOG_CALLS",
		"SELLERCENTER_DATABASE_HOST",
		"SELLERCENTER_DATABASE_PASSWORD",
		"SELLERCENTER_DATABASE_SSLMODE",
		"SELLERCENTER_DATABASE_MAX_OPEN_CONNS",
		"SELLERCENTER_DATABASE_MAX_IDLE_CONNS",
		"SELLERCENTER_REDIS_HOST",
		"SELLERCENTER_FEEDSYNC_INTERVAL",
		"SELLERCENTER_TELEMETRY_SAMPLING_RATIO",
		"SELLERCENTER_TELEMETRY_DB_LOG_FULL_SQL",
		"SELLERCENTER_TELEMETRY_PROFILING_ENABLED",
		"SELLERCENTER_TELEMETRY_PROFILING_PROFILE_TYPES",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "falabella-sdk", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "astroselling", cfg.Falabella.Integrator)
	assert.Equal(t, 30, cfg.Falabella.TimeoutSeconds)
	assert.False(t, cfg.Falabella.CustomLogCalls)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "falabella", cfg.Database.DBName)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	assert.Equal(t, "warn", cfg.Database.LogLevel)
	assert.Empty(t, cfg.Redis.Host)
	assert.Zero(t, cfg.Redis.Port)
	assert.Equal(t, time.Minute, cfg.FeedSync.Interval)
	assert.Equal(t, 5*time.Minute, cfg.FeedSync.LockTTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "falabella-sdk", cfg.Telemetry.ServiceName)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, 30*time.Second, cfg.Telemetry.MetricsExportInterval)
	assert.Equal(t, "falabella-sdk", cfg.Telemetry.Profiling.ApplicationName)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SELLERCENTER_FALABELLA_USER_ID", "seller@example.com")
	t.Setenv("SELLERCENTER_FALABELLA_API_KEY", "secret")
	t.Setenv("SELLERCENTER_FALABELLA_COUNTRY", "chl")
	t.Setenv("SELLERCENTER_FALABELLA_CUSTOM_LOG_CALLS", "true")
	t.Setenv("SELLERCENTER_REDIS_HOST", "redis.local")
	t.Setenv("SELLERCENTER_FEEDSYNC_INTERVAL", "90s")
	t.Setenv("SELLERCENTER_TELEMETRY_PROFILING_ENABLED", "true")
	t.Setenv("SELLERCENTER_TELEMETRY_PROFILING_PROFILE_TYPES", "cpu goroutines")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "seller@example.com", cfg.Falabella.UserID)
	assert.Equal(t, "secret", cfg.Falabella.APIKey)
	assert.Equal(t, "CHL", cfg.Falabella.Country)
	assert.True(t, cfg.Falabella.CustomLogCalls)
	assert.Equal(t, "redis.local", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 90*time.Second, cfg.FeedSync.Interval)
	assert.True(t, cfg.Telemetry.Profiling.Enabled)
	assert.Equal(t, []string{"cpu", "goroutines"}, cfg.Telemetry.Profiling.ProfileTypes)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "sellercenter.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[falabella]
user_id = "file@example.com"
country = "PER"
timeout_seconds = 12

[database]
host = "db.internal"
max_open_conns = 4
max_idle_conns = 1

[telemetry]
enabled = true
sampling_ratio = 0.25

[telemetry.profiling]
profile_types = ["cpu", "inuse_space"]
`), 0o600))

	t.Run("reads the file", func(t *testing.T) {
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "file@example.com", cfg.Falabella.UserID)
		assert.Equal(t, "PER", cfg.Falabella.Country)
		assert.Equal(t, 12, cfg.Falabella.TimeoutSeconds)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 4, cfg.Database.MaxOpenConns)
		assert.True(t, cfg.Telemetry.Enabled)
		assert.Equal(t, 0.25, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, []string{"cpu", "inuse_space"}, cfg.Telemetry.Profiling.ProfileTypes)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		t.Setenv("SELLERCENTER_DATABASE_HOST", "override")
		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "override", cfg.Database.Host)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error reading config file")
	})
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle conns exceed open conns",
			env:     map[string]string{"SELLERCENTER_DATABASE_MAX_OPEN_CONNS": "3", "SELLERCENTER_DATABASE_MAX_IDLE_CONNS": "5"},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative idle conns",
			env:     map[string]string{"SELLERCENTER_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "max_idle_conns cannot be negative",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"SELLERCENTER_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio must be between",
		},
		{
			name:    "production requires a database password",
			env:     map[string]string{"SELLERCENTER_APP_ENV": "production", "SELLERCENTER_DATABASE_SSLMODE": "require"},
			wantErr: "database.password is required in production",
		},
		{
			name:    "production requires ssl",
			env:     map[string]string{"SELLERCENTER_APP_ENV": "production", "SELLERCENTER_DATABASE_PASSWORD": "pw"},
			wantErr: "database.sslmode cannot be 'disable'",
		},
		{
			name: "production forbids full sql in traces",
			env: map[string]string{
				"SELLERCENTER_APP_ENV":                   "production",
				"SELLERCENTER_DATABASE_PASSWORD":         "pw",
				"SELLERCENTER_DATABASE_SSLMODE":          "require",
				"SELLERCENTER_TELEMETRY_DB_LOG_FULL_SQL": "true",
			},
			wantErr: "db_log_full_sql must be false",
		},
		{
			name: "production forbids the staging storefront",
			env: map[string]string{
				"SELLERCENTER_APP_ENV":           "production",
				"SELLERCENTER_DATABASE_PASSWORD": "pw",
				"SELLERCENTER_DATABASE_SSLMODE":  "require",
				"SELLERCENTER_FALABELLA_COUNTRY": "tst",
			},
			wantErr: "TST is the staging storefront",
		},
		{
			name: "valid production config",
			env: map[string]string{
				"SELLERCENTER_APP_ENV":           "production",
				"SELLERCENTER_DATABASE_PASSWORD": "pw",
				"SELLERCENTER_DATABASE_SSLMODE":  "require",
				"SELLERCENTER_FALABELLA_COUNTRY": "COL",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass@word#123",
		DBName:   "falabella",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/falabella")
	assert.Contains(t, dsn, "pass%40word%23123")
	assert.Contains(t, dsn, "sslmode=disable")
}
