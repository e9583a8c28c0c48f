package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doudou-app/doudou/internal/config"
	"github.com/doudou-app/doudou/internal/domain"
	"github.com/doudou-app/doudou/internal/fakeapi"
	"github.com/doudou-app/doudou/internal/prefs"
	"github.com/doudou-app/doudou/pkg/logger"
)

func newFakeBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(fakeapi.NewServer(":0", fakeapi.NewStore(), true, logger.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func loadConfig(t *testing.T, environ map[string]string) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(environ)
	require.NoError(t, err)
	return cfg
}

func TestNew_MemoryPrefs(t *testing.T) {
	cfg := loadConfig(t, map[string]string{
		"DOUDOU_BACKEND_URL": newFakeBackend(t),
		"PREFS_BACKEND":      "memory",
	})
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	assert.Equal(t, domain.LanguageFR, a.Language.Language())

	a.Locations.FetchLocations(ctx)
	assert.Len(t, a.Locations.State().Locations, 5)

	report := a.Health.Check(ctx)
	assert.True(t, report.Healthy())
	assert.Equal(t, []string{"backend", "preferences"}, report.Names())
}

func TestNew_FilePrefsRestoresLanguage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, prefs.NewFileStorage(path).Set(context.Background(), prefs.LanguageKey, "en"))

	cfg := loadConfig(t, map[string]string{
		"DOUDOU_BACKEND_URL": newFakeBackend(t),
		"PREFS_FILE":         path,
	})
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageEN, a.Language.Language())
	assert.Equal(t, "Explore", a.Language.T("explore"))

	a.Language.SetLanguage(ctx, domain.LanguageFR)
	require.NoError(t, a.Close(ctx))

	v, ok, err := prefs.NewFileStorage(path).Get(ctx, prefs.LanguageKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fr", v)
}

func TestNew_RedisPrefs(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("doudou:"+prefs.LanguageKey, "en"))

	cfg := loadConfig(t, map[string]string{
		"DOUDOU_BACKEND_URL": newFakeBackend(t),
		"PREFS_BACKEND":      "redis",
		"REDIS_HOST":         mr.Host(),
		"REDIS_PORT":         mr.Port(),
	})
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, domain.LanguageEN, a.Language.Language())
	require.NoError(t, a.Close(ctx))
}

func TestNew_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	cfg := loadConfig(t, map[string]string{
		"PREFS_BACKEND": "redis",
		"REDIS_HOST":    "127.0.0.1",
		"REDIS_PORT":    strconv.Itoa(port),
	})

	a, err := New(context.Background(), cfg, logger.Discard())

	assert.Nil(t, a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open preferences")
}

func TestHealth_BackendDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	cfg := loadConfig(t, map[string]string{
		"DOUDOU_BACKEND_URL": url,
		"PREFS_BACKEND":      "memory",
		"BREAKER_ENABLED":    "false",
	})
	ctx := context.Background()

	a, err := New(ctx, cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(ctx) })

	report := a.Health.Check(ctx)
	assert.False(t, report.Healthy())
	assert.NotEmpty(t, report.Checks["backend"].Error)
}

func TestPrefsPath(t *testing.T) {
	cfg := loadConfig(t, map[string]string{"PREFS_FILE": "/tmp/doudou.json"})
	path, err := PrefsPath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/doudou.json", path)

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")
	path, err = PrefsPath(loadConfig(t, map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, "doudou/preferences.json", filepath.ToSlash(filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path))))
}
