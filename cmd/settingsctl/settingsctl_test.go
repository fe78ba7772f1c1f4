package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbox/internal/jsonx"
	"chatbox/internal/models"
	"chatbox/internal/store"
)

type cliEnv struct {
	configPath string
	dataDir    string
	legacyDir  string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		configPath: filepath.Join(dir, "chatbox.toml"),
		dataDir:    filepath.Join(dir, "data"),
		legacyDir:  filepath.Join(dir, "legacy"),
	}
	body := fmt.Sprintf("[log]\nlevel = \"error\"\n\n[store]\ndata_dir = %q\nlegacy_dir = %q\n", env.dataDir, env.legacyDir)
	require.NoError(t, os.WriteFile(env.configPath, []byte(body), 0o644))
	return env
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e cliEnv) saved(t *testing.T) models.Settings {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dataDir, store.DocumentName))
	require.NoError(t, err)
	var doc map[string]jsonx.RawMessage
	require.NoError(t, jsonx.Unmarshal(data, &doc))
	var s models.Settings
	require.NoError(t, jsonx.Unmarshal(doc[models.SettingsKey], &s))
	return s
}

func TestShow_Defaults(t *testing.T) {
	env := newCLIEnv(t)
	out, err := env.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "(not set)")
}

func TestUseAndSet(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "use", "anthropic", "claude-3-5-haiku-latest")
	require.NoError(t, err)
	s := env.saved(t)
	assert.Equal(t, "anthropic", s.AIProvider)
	assert.Equal(t, "claude-3-5-haiku-latest", s.Model)
	assert.Equal(t, models.Bounded(16384), s.MaxContextSize)

	_, err = env.run(t, "set", "maxTokens", "99999")
	require.NoError(t, err)
	assert.True(t, env.saved(t).MaxTokens.IsUnbounded())

	_, err = env.run(t, "set", "openaiKey", "  sk-ant-123456789 ")
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-123456789", env.saved(t).OpenAIKey)

	out, err := env.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "sk-...6789")
	assert.NotContains(t, out, "sk-ant-123456789")

	_, err = env.run(t, "reset-model")
	require.NoError(t, err)
	s = env.saved(t)
	assert.Equal(t, "claude-3-5-sonnet-latest", s.Model)
	assert.True(t, s.MaxContextSize.IsUnbounded())
	assert.Equal(t, "sk-ant-123456789", s.OpenAIKey)
}

func TestSet_Rejections(t *testing.T) {
	env := newCLIEnv(t)

	tests := [][]string{
		{"set", "maxContextSize", "-5"},
		{"set", "temperature", "warm"},
		{"set", "temperature", "2.5"},
		{"set", "theme", "sepia"},
		{"set", "showWordCount", "maybe"},
		{"set", "colour", "red"},
		{"use", "nope"},
		{"use", "openai", "claude-3-5-haiku-latest"},
	}
	for _, args := range tests {
		_, err := env.run(t, args...)
		assert.Error(t, err, "%v", args)
	}
	_, err := os.Stat(filepath.Join(env.dataDir, store.DocumentName))
	if err == nil {
		assert.Equal(t, "gpt-4o-mini", env.saved(t).Model)
	}
}

func TestMigrate(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "no readable legacy settings")

	legacy := filepath.Join(env.legacyDir, filepath.FromSlash(store.LegacyDocumentName))
	require.NoError(t, os.MkdirAll(filepath.Dir(legacy), 0o755))
	require.NoError(t, os.WriteFile(legacy, []byte(`{"settings":{"theme":"dark","fontSize":14}}`), 0o644))

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "legacy settings imported")

	out, err = env.run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "already imported")

	s := env.saved(t)
	assert.Equal(t, models.ThemeDark, s.Theme)
	assert.Equal(t, 14, s.FontSize)
}

func TestProvidersAndFlush(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run(t, "providers")
	require.NoError(t, err)
	assert.Contains(t, out, "ollama")
	assert.Contains(t, out, "llama3.1:8b")

	out, err = env.run(t, "flush")
	require.NoError(t, err)
	assert.Contains(t, out, "flushed")
	_, err = os.Stat(filepath.Join(env.dataDir, store.DocumentName))
	assert.NoError(t, err)
}
