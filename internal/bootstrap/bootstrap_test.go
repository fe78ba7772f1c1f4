package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbox/internal/config"
	"chatbox/internal/logger"
	"chatbox/internal/models"
	"chatbox/internal/store"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Backend = backend
	cfg.Store.DataDir = filepath.Join(dir, "data")
	cfg.Store.LegacyDir = filepath.Join(dir, "legacy")
	cfg.Store.DatabasePath = filepath.Join(dir, "db", "chatbox.db")
	return cfg
}

func TestRuntime_FileBackendMigratesAndSaves(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendFile)

	legacyPath := filepath.Join(cfg.Store.LegacyDir, filepath.FromSlash(store.LegacyDocumentName))
	require.NoError(t, os.MkdirAll(filepath.Dir(legacyPath), 0o755))
	require.NoError(t, os.WriteFile(legacyPath, []byte(`{"settings":{"theme":"dark","fontSize":14}}`), 0o644))

	rt, err := NewWithConfig(cfg, logger.Discard(), Options{})
	require.NoError(t, err)
	rt.Start(ctx)

	got, err := rt.Services.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, got.Theme)
	assert.Equal(t, 14, got.FontSize)

	got.Language = "jp"
	_, err = rt.Services.Settings.Save(got)
	require.NoError(t, err)
	rt.Stop(ctx)

	data, err := os.ReadFile(filepath.Join(cfg.Store.DataDir, store.DocumentName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"language":"jp"`)
	assert.Contains(t, string(data), store.MigrationFlagKey)
}

func TestRuntime_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendSQLite)

	rt, err := NewWithConfig(cfg, logger.Discard(), Options{})
	require.NoError(t, err)
	rt.Start(ctx)

	s := rt.Services.Settings.Defaults()
	s.FontSize = 18
	_, err = rt.Services.Settings.Save(s)
	require.NoError(t, err)
	rt.Stop(ctx)

	reopened, err := NewWithConfig(cfg, logger.Discard(), Options{})
	require.NoError(t, err)
	reopened.Start(ctx)
	defer reopened.Stop(ctx)

	got, err := reopened.Services.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 18, got.FontSize)
}

func TestRuntime_ChatClientNeedsKey(t *testing.T) {
	ctx := context.Background()
	rt, err := NewWithConfig(testConfig(t, config.BackendFile), logger.Discard(), Options{})
	require.NoError(t, err)
	rt.Start(ctx)
	defer rt.Stop(ctx)

	_, err = rt.ChatClient(ctx)
	assert.Error(t, err)
}

func TestNewWithConfig_UnknownBackend(t *testing.T) {
	cfg := testConfig(t, "redis")
	_, err := NewWithConfig(cfg, logger.Discard(), Options{})
	assert.Error(t, err)
}
