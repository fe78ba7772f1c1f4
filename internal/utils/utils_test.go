package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(file))
	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, DirectoryExists(dir))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHATBOX_UTILS_TEST=from-file\n"), 0o644))

	t.Setenv("CHATBOX_UTILS_TEST", "")
	require.NoError(t, os.Unsetenv("CHATBOX_UTILS_TEST"))
	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("CHATBOX_UTILS_TEST"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}
