// Package app wires the client stores to their configured dependencies.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doudou-app/doudou/internal/api"
	"github.com/doudou-app/doudou/internal/config"
	"github.com/doudou-app/doudou/internal/fakeapi"
	"github.com/doudou-app/doudou/internal/prefs"
	"github.com/doudou-app/doudou/internal/store"
	"github.com/doudou-app/doudou/pkg/health"
	"github.com/doudou-app/doudou/pkg/httpclient"
	"github.com/doudou-app/doudou/pkg/tracing"
)

const serviceName = "doudou"

// App holds the wired client components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Client    *api.Client
	Locations *store.LocationsStore
	Language  *prefs.LanguageStore
	Health    *health.Registry

	storage        prefs.Storage
	rdb            *redis.Client
	shutdownTracer func(context.Context) error
}

// New builds every component from cfg and loads the persisted language.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	tcfg := tracing.DefaultConfig(serviceName)
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.OTELEnabled
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	shutdownTracer, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, shutdownTracer: shutdownTracer}

	storage, rdb, err := newStorage(ctx, cfg)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, err
	}
	a.storage = storage
	a.rdb = rdb

	a.Client = api.New(cfg.Backend(), newDoer(cfg, logger), logger)
	a.Locations = store.New(a.Client, logger)
	a.Language = prefs.NewLanguageStore(storage, logger)
	a.Language.LoadLanguage(ctx)

	a.Health = health.NewRegistry(health.DefaultTimeout)
	a.Health.Register("backend", func(ctx context.Context) error {
		_, err := a.Client.Ping(ctx)
		return err
	})
	a.Health.Register("preferences", func(ctx context.Context) error {
		_, _, err := storage.Get(ctx, prefs.LanguageKey)
		return err
	})

	logger.Debug("app initialized",
		slog.String("backend", cfg.Backend()),
		slog.String("prefs_backend", cfg.PrefsBackend),
	)
	return a, nil
}

func newDoer(cfg *config.Config, logger *slog.Logger) httpclient.Doer {
	hcfg := httpclient.DefaultConfig()
	hcfg.Timeout = cfg.HTTPTimeout()
	hcfg.MaxRetries = cfg.HTTPMaxRetries
	hcfg.RateLimit = cfg.HTTPRateLimit
	hcfg.RateBurst = cfg.HTTPRateBurst
	client := httpclient.New(hcfg)

	if !cfg.BreakerEnabled {
		return client
	}
	bcfg := httpclient.DefaultBreakerConfig("doudou-backend")
	bcfg.Timeout = cfg.BreakerTimeout()
	bcfg.FailureRatio = cfg.BreakerFailureRatio
	bcfg.MinRequests = cfg.BreakerMinRequests
	return httpclient.NewBreaker(client, bcfg, logger)
}

func newStorage(ctx context.Context, cfg *config.Config) (prefs.Storage, *redis.Client, error) {
	switch cfg.PrefsBackend {
	case config.PrefsMemory:
		return prefs.NewMemoryStorage(), nil, nil
	case config.PrefsRedis:
		rdb, err := prefs.NewRedisClient(ctx, prefs.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open preferences: %w", err)
		}
		return prefs.NewRedisStorage(rdb), rdb, nil
	default:
		path, err := PrefsPath(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open preferences: %w", err)
		}
		return prefs.NewFileStorage(path), nil, nil
	}
}

// PrefsPath returns the preferences file location, defaulting to
// doudou/preferences.json under the user's config directory.
func PrefsPath(cfg *config.Config) (string, error) {
	if cfg.PrefsFile != "" {
		return cfg.PrefsFile, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "doudou", "preferences.json"), nil
}

// FakeServer returns an in-memory backend listening on the configured fake
// API port.
func (a *App) FakeServer(seed bool) *fakeapi.Server {
	return fakeapi.NewServer(fmt.Sprintf(":%d", a.cfg.FakeAPIPort), fakeapi.NewStore(), seed, a.logger)
}

// Close waits for pending preference writes, then releases connections and
// flushes traces.
func (a *App) Close(ctx context.Context) error {
	a.Language.Wait()

	var errs []error
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.shutdownTracer(flushCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracer: %w", err))
	}
	return errors.Join(errs...)
}
