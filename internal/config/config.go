package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/doudou-app/doudou/pkg/config"
)

// Prefs backends.
const (
	PrefsFile   = "file"
	PrefsRedis  = "redis"
	PrefsMemory = "memory"
)

// Config holds all configuration for the Doudou client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`

	// Backend. BackendURL falls back to the mobile app's variable.
	BackendURL     string `env:"DOUDOU_BACKEND_URL"`
	ExpoBackendURL string `env:"EXPO_PUBLIC_BACKEND_URL"`

	// Outgoing HTTP
	HTTPTimeoutSeconds int     `env:"HTTP_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPMaxRetries     int     `env:"HTTP_MAX_RETRIES" envDefault:"0"`
	HTTPRateLimit      float64 `env:"HTTP_RATE_LIMIT" envDefault:"0"`
	HTTPRateBurst      int     `env:"HTTP_RATE_BURST" envDefault:"1"`

	// Circuit breaker
	BreakerEnabled      bool    `env:"BREAKER_ENABLED" envDefault:"true"`
	BreakerTimeoutSecs  int     `env:"BREAKER_TIMEOUT_SECONDS" envDefault:"30"`
	BreakerFailureRatio float64 `env:"BREAKER_FAILURE_RATIO" envDefault:"0.5"`
	BreakerMinRequests  uint32  `env:"BREAKER_MIN_REQUESTS" envDefault:"5"`

	// Preferences
	PrefsBackend string `env:"PREFS_BACKEND" envDefault:"file"`
	PrefsFile    string `env:"PREFS_FILE"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Fake backend
	FakeAPIPort int `env:"FAKE_API_PORT" envDefault:"8001"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	return finish(pkgconfig.Load(cfg), cfg)
}

// LoadFrom reads configuration from the given environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	return finish(pkgconfig.LoadFrom(cfg, environ), cfg)
}

func finish(loadErr error, cfg *Config) (*Config, error) {
	if loadErr != nil {
		return nil, fmt.Errorf("load doudou config: %w", loadErr)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Backend returns the backend base URL. Without one configured the client
// talks to a fake backend on the local fake API port.
func (c *Config) Backend() string {
	switch {
	case c.BackendURL != "":
		return c.BackendURL
	case c.ExpoBackendURL != "":
		return c.ExpoBackendURL
	default:
		return fmt.Sprintf("http://localhost:%d", c.FakeAPIPort)
	}
}

// HTTPTimeout returns the per-request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// BreakerTimeout returns how long an open breaker waits before probing.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSecs) * time.Second
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if u, err := url.Parse(c.Backend()); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL %q: must be an absolute http(s) URL", c.Backend())
	}
	if c.HTTPTimeoutSeconds < 1 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must not be negative, got %d", c.HTTPMaxRetries)
	}
	if c.HTTPRateLimit < 0 {
		return fmt.Errorf("HTTP_RATE_LIMIT must not be negative, got %v", c.HTTPRateLimit)
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0.0, 1.0], got %v", c.BreakerFailureRatio)
	}
	switch strings.ToLower(c.PrefsBackend) {
	case PrefsFile, PrefsRedis, PrefsMemory:
		c.PrefsBackend = strings.ToLower(c.PrefsBackend)
	default:
		return fmt.Errorf("PREFS_BACKEND must be one of file, redis, memory, got %q", c.PrefsBackend)
	}
	if c.RedisPort < 1 || c.RedisPort > 65535 {
		return fmt.Errorf("invalid Redis port: %d", c.RedisPort)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}
	if c.FakeAPIPort < 1 || c.FakeAPIPort > 65535 {
		return fmt.Errorf("invalid fake API port: %d", c.FakeAPIPort)
	}
	return nil
}
