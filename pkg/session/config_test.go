package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "limit = 50\nshow_steps = true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Limit: 50, ShowSteps: true}, cfg)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "named_output = true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, cfg.Limit)
	assert.True(t, cfg.NamedOutput)
}

func TestLoadConfigErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "limit = \"many\"\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing "+path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "limit = 7\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	path, cfg, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, 7, cfg.Limit)
}
