package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8089", cfg.Server.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, "replays", cfg.Replay.Dir)
	assert.Zero(t, cfg.Game.Seed)
}

func TestLoadFileValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  address: ":9000"
logging:
  level: debug
  format: json
game:
  cards_path: cards.yaml
  seed: 42
replay:
  enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "cards.yaml", cfg.Game.CardsPath)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.False(t, cfg.Replay.Enabled)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BEASTBRAWL_SERVER_ADDRESS", ":7777")
	t.Setenv("BEASTBRAWL_LOGGING_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "server:\n  address: \":9000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
