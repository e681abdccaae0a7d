package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "menuopts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
config_root: /srv/game/config
port: 7778
debug: true
watch_registry: true
activity:
  channel: audit
rules:
  engine: cel
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/game/config", cfg.ConfigRoot)
	assert.Equal(t, DefaultCacheDir, cfg.CacheDir)
	assert.Equal(t, 7778, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.WatchRegistry)
	assert.True(t, cfg.Activity.Enabled)
	assert.Equal(t, "audit", cfg.Activity.Channel)
	assert.Equal(t, EngineCEL, cfg.Rules.Engine)
	assert.Equal(t, filepath.Join("/srv/game/config", DefaultCacheDir, "CustomIdRegistry-7778.txt"), cfg.RegistryPath())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
port: 70000
cache_dir: " "
rules:
  engine: lua
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port 70000")
	assert.Contains(t, err.Error(), "cache_dir")
	assert.Contains(t, err.Error(), `"lua"`)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}
