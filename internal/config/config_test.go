package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("ANIMESAMA_BASE_URL", "")
	t.Setenv("ANIMESAMA_PLAYER", "")
	t.Setenv("ANIMESAMA_DB", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, PlayerMPV, cfg.DefaultPlayer)
	assert.False(t, cfg.PlayerSet)
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName, "history.db"), cfg.DBPath)
}

func TestLoadFileReadsPlayer(t *testing.T) {
	t.Setenv("ANIMESAMA_PLAYER", "")
	t.Setenv("ANIMESAMA_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("default_player=2\nbase_url=http://mirror.test/\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, PlayerVLC, cfg.DefaultPlayer)
	assert.True(t, cfg.PlayerSet)
	assert.Equal(t, "http://mirror.test", cfg.BaseURL)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("default_player=2\n"), 0o644))

	t.Setenv("ANIMESAMA_PLAYER", "0")
	t.Setenv("ANIMESAMA_DB", "/tmp/custom.db")
	t.Setenv("ANIMESAMA_BASE_URL", "http://localhost:8080")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, PlayerBrowser, cfg.DefaultPlayer)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestInvalidPlayer(t *testing.T) {
	t.Setenv("ANIMESAMA_PLAYER", "")
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("default_player=7\n"), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_player")
}
