package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:8001", cfg.Backend())
	assert.Equal(t, 0, cfg.HTTPMaxRetries)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout())
	assert.Equal(t, PrefsFile, cfg.PrefsBackend)
	assert.Equal(t, 6379, cfg.RedisPort)
	assert.False(t, cfg.OTELEnabled)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("DOUDOU_BACKEND_URL", "https://api.doudou.app")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://api.doudou.app", cfg.Backend())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestBackend_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{
			name:    "expo fallback",
			environ: map[string]string{"EXPO_PUBLIC_BACKEND_URL": "https://expo.example.com"},
			want:    "https://expo.example.com",
		},
		{
			name: "explicit wins",
			environ: map[string]string{
				"DOUDOU_BACKEND_URL":      "http://10.0.0.2:8001",
				"EXPO_PUBLIC_BACKEND_URL": "https://expo.example.com",
			},
			want: "http://10.0.0.2:8001",
		},
		{
			name:    "fake api port",
			environ: map[string]string{"FAKE_API_PORT": "9100"},
			want:    "http://localhost:9100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.environ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Backend())
		})
	}
}

func TestLoadFrom_PrefsBackendCaseInsensitive(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"PREFS_BACKEND": "Redis"})

	require.NoError(t, err)
	assert.Equal(t, PrefsRedis, cfg.PrefsBackend)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		wantErr string
	}{
		{name: "relative backend", environ: map[string]string{"DOUDOU_BACKEND_URL": "api.doudou.app"}, wantErr: "invalid backend URL"},
		{name: "ftp backend", environ: map[string]string{"DOUDOU_BACKEND_URL": "ftp://api.doudou.app"}, wantErr: "invalid backend URL"},
		{name: "zero timeout", environ: map[string]string{"HTTP_TIMEOUT_SECONDS": "0"}, wantErr: "HTTP_TIMEOUT_SECONDS"},
		{name: "negative retries", environ: map[string]string{"HTTP_MAX_RETRIES": "-1"}, wantErr: "HTTP_MAX_RETRIES"},
		{name: "negative rate", environ: map[string]string{"HTTP_RATE_LIMIT": "-2"}, wantErr: "HTTP_RATE_LIMIT"},
		{name: "breaker ratio", environ: map[string]string{"BREAKER_FAILURE_RATIO": "1.5"}, wantErr: "BREAKER_FAILURE_RATIO"},
		{name: "prefs backend", environ: map[string]string{"PREFS_BACKEND": "sqlite"}, wantErr: "PREFS_BACKEND"},
		{name: "redis port", environ: map[string]string{"REDIS_PORT": "70000"}, wantErr: "invalid Redis port"},
		{name: "sample rate", environ: map[string]string{"OTEL_SAMPLE_RATE": "2.0"}, wantErr: "OTEL_SAMPLE_RATE must be between 0.0 and 1.0"},
		{name: "fake api port", environ: map[string]string{"FAKE_API_PORT": "0"}, wantErr: "invalid fake API port"},
		{name: "unparsable int", environ: map[string]string{"REDIS_DB": "one"}, wantErr: "load doudou config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.environ)

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
