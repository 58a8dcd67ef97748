package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOGBOOK_CONFIG", "LOGBOOK_DB", "LOGBOOK_LOG_LEVEL", "LOGBOOK_TAXONOMY", "LOGBOOK_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestLoadFromFile_MissingUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Minute, cfg.Import.StagingTTL())
	assert.Equal(t, time.Minute, cfg.Import.ReapInterval())
	assert.Equal(t, "logbook.db", filepath.Base(cfg.Database.Path))
	assert.Empty(t, cfg.Taxonomy.Path)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  path: /tmp/ledger.db
log:
  level: warn
import:
  staging_ttl_minutes: 0
  data_dir: /srv/sheets
taxonomy:
  path: /etc/logbook/taxonomy.yaml
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Zero(t, cfg.Import.StagingTTL())
	assert.Equal(t, 60, cfg.Import.ReapIntervalSeconds, "unset keys keep defaults")
	assert.Equal(t, "/srv/sheets", cfg.Import.DataDir)
	assert.Equal(t, "/etc/logbook/taxonomy.yaml", cfg.Taxonomy.Path)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGBOOK_DB", "/var/lib/logbook.db")
	t.Setenv("LOGBOOK_TAXONOMY", "/tmp/tax.yaml")
	t.Setenv("LOGBOOK_LOG_LEVEL", "error")

	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/logbook.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/tax.yaml", cfg.Taxonomy.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.False(t, cfg.Database.Debug)

	t.Setenv("LOGBOOK_DEBUG", "true")
	cfg, err = LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Database.Debug)

	t.Setenv("LOGBOOK_DEBUG", "")
	t.Setenv("LOGBOOK_LOG_LEVEL", "loud")
	cfg, err = LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level, "invalid env level is ignored")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	for name, content := range map[string]string{
		"bad level":     "log:\n  level: verbose\n",
		"negative ttl":  "import:\n  staging_ttl_minutes: -1\n",
		"negative reap": "import:\n  reap_interval_seconds: -5\n",
		"no database":   "database:\n  path: \"\"\n",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err := LoadFromFile(path)
		assert.Error(t, err, name)
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	cfg.Import.StagingTTLMinutes = 5
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", loaded.Log.Level)
	assert.Equal(t, 5*time.Minute, loaded.Import.StagingTTL())
}

func TestExpandHome(t *testing.T) {
	home := homeDir()
	assert.Equal(t, filepath.Join(home, "sheets"), expandHome("~/sheets"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "", expandHome(""))
}
