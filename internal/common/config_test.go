package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tally.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFilesDefaults(t *testing.T) {
	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "./data/tally", config.Storage.Badger.Path)
	assert.Equal(t, "./inbox", config.Watch.Dir)
	assert.False(t, config.IsProduction())
}

func TestLoadFromFilesOverride(t *testing.T) {
	path := writeConfigFile(t, `
environment = "production"

[logging]
level = "debug"
output = ["stdout", "file"]

[storage.badger]
path = "/var/lib/tally"

[engine]
keywords_file = "keywords.yaml"
min_portfolio_value = 500.0
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.True(t, config.IsProduction())
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, []string{"stdout", "file"}, config.Logging.Output)
	assert.Equal(t, "/var/lib/tally", config.Storage.Badger.Path)
	assert.Equal(t, "keywords.yaml", config.Engine.KeywordsFile)
	assert.Equal(t, 500.0, config.Engine.MinPortfolioValue)

	// Sections absent from the file keep their defaults
	assert.Equal(t, "./inbox", config.Watch.Dir)
}

func TestLoadFromFilesLaterFileWins(t *testing.T) {
	first := writeConfigFile(t, `
[logging]
level = "debug"
`)
	second := writeConfigFile(t, `
[logging]
level = "warn"
`)

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TALLY_ENV", "production")
	t.Setenv("TALLY_LOG_LEVEL", "error")
	t.Setenv("TALLY_BADGER_PATH", "/tmp/tally-env")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, "error", config.Logging.Level)
	assert.Equal(t, "/tmp/tally-env", config.Storage.Badger.Path)
}

func TestWatchDurations(t *testing.T) {
	watch := WatchConfig{Interval: "30s", Retention: "48h"}
	assert.Equal(t, 30*time.Second, watch.IntervalDuration())
	assert.Equal(t, 48*time.Hour, watch.RetentionDuration())

	// Invalid values fall back to defaults
	broken := WatchConfig{Interval: "soon", Retention: "-1h"}
	assert.Equal(t, 10*time.Second, broken.IntervalDuration())
	assert.Equal(t, 30*24*time.Hour, broken.RetentionDuration())
}
