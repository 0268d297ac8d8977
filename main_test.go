package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HOLIDAYS_DIR", "HOLIDAYS_YEAR", "HOLIDAYS_LOG_LEVEL", "HOLIDAYS_METRICS_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`holidays_dir: data/holidays
year: 2025
skip_observances: [other, bank]
`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "data/holidays", cfg.HolidaysDir)
	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"other", "bank"}, cfg.SkipObservances)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Run("env wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HOLIDAYS_DIR", "/tmp/ph")
		t.Setenv("HOLIDAYS_YEAR", "2030")
		t.Setenv("HOLIDAYS_METRICS_FILE", "/tmp/ph.prom")

		cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "/tmp/ph", cfg.HolidaysDir)
		assert.Equal(t, 2030, cfg.Year)
		assert.Equal(t, "/tmp/ph.prom", cfg.MetricsFile)
	})

	t.Run("bad year", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HOLIDAYS_YEAR", "next")

		_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "HOLIDAYS_YEAR")
	})
}

func TestRootCmd_DryRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("PH: []\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "--dir", dir, "--year", "2024", "--dry-run", "--log-level", "error", "de"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "de.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "PH: []\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "index.js"))
}

func TestRootCmd_Run(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("_nominatim_url: http://x\nPH: []\n"), 0o644))
	metrics := filepath.Join(dir, "sync.prom")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.yaml"), "--dir", dir, "--year", "2024",
		"--log-level", "error", "--metrics-file", metrics, "DE"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "de.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "---\n\n_nominatim_url: http://x\n\nPH:\n")
	assert.Contains(t, string(data), "fixed_date: [10, 3]")
	assert.FileExists(t, filepath.Join(dir, "index.js"))
	assert.FileExists(t, metrics)
	assert.NoFileExists(t, filepath.Join(dir, "us.yaml"), "only DE was requested")
}

func TestRootCmd_BadLogLevel(t *testing.T) {
	clearEnv(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "--dir", t.TempDir(), "--log-level", "loud"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	assert.Error(t, cmd.Execute())
}
