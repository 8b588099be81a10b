// Package config loads user settings from config.ini and the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kirsle/configdir"
	"github.com/pkg/errors"
)

// AppName names the per-user config and data directories.
const AppName = "animesama-cli"

const (
	DefaultBaseURL   = "https://anime-sama.fr"
	DefaultVideoHost = "https://video.sibnet.ru"
	UpcomingURL      = "https://animecountdown.com/upcoming"
)

// Player preference values accepted by default_player.
const (
	PlayerBrowser = 0
	PlayerMPV     = 1
	PlayerVLC     = 2
)

// Config is the resolved runtime configuration.
type Config struct {
	BaseURL       string
	VideoHost     string
	UpcomingURL   string
	DefaultPlayer int
	DBPath        string
	// LegacyDBPath is imported once into an empty history.
	LegacyDBPath string
	// PlayerSet reports whether default_player was given explicitly.
	PlayerSet bool
}

// Dir returns the directory that holds config.ini.
func Dir() string {
	return configdir.LocalConfig(AppName)
}

// DataDir returns $XDG_DATA_HOME/animesama-cli, or ~/.local/share/animesama-cli.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func legacyDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "anime-sama", "history.db")
}

// Load reads config.ini from Dir() and applies environment overrides.
func Load() (*Config, error) {
	return LoadFile(filepath.Join(Dir(), "config.ini"))
}

// LoadFile is Load with an explicit config.ini location. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:       DefaultBaseURL,
		VideoHost:     DefaultVideoHost,
		UpcomingURL:   UpcomingURL,
		DefaultPlayer: PlayerMPV,
		DBPath:        filepath.Join(DataDir(), "history.db"),
		LegacyDBPath:  legacyDBPath(),
	}

	values := map[string]string{}
	if _, err := os.Stat(path); err == nil {
		values, err = godotenv.Read(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to stat %s", path)
	}

	if v, ok := values["default_player"]; ok {
		if err := cfg.setPlayer(v); err != nil {
			return nil, err
		}
	}
	if v, ok := values["base_url"]; ok && v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}

	if v := os.Getenv("ANIMESAMA_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("ANIMESAMA_PLAYER"); v != "" {
		if err := cfg.setPlayer(v); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("ANIMESAMA_DB"); v != "" {
		cfg.DBPath = v
	}

	return cfg, nil
}

func (c *Config) setPlayer(raw string) error {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < PlayerBrowser || n > PlayerVLC {
		return errors.Errorf("invalid default_player %q: want 0 (browser), 1 (mpv) or 2 (vlc)", raw)
	}
	c.DefaultPlayer = n
	c.PlayerSet = true
	return nil
}
