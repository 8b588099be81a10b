// Package player launches an external media player for a resolved video URL
package player

import (
	"context"
	"os"
	"os/exec"

	"github.com/alvarorichard/animesama-cli/internal/config"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/pkg/errors"
)

var (
	// ErrPlayerNotFound means none of the candidate executables is installed
	ErrPlayerNotFound = errors.New("no media player found: install mpv or vlc")
	// ErrPlaybackFailed means a player was found but exited with an error
	ErrPlaybackFailed = errors.New("playback failed")
)

// Strategy is one way of opening a URL
type Strategy struct {
	Name   string
	Binary string
	Args   func(url, title string) []string
	// Detach runs the process in its own group; used for openers that return immediately
	Detach bool
}

var (
	MPV = Strategy{
		Name:   "mpv",
		Binary: "mpv",
		Args: func(u, t string) []string {
			args := []string{u, "--fullscreen"}
			if t != "" {
				args = append(args, "--force-media-title="+t)
			}
			return args
		},
	}
	VLC = Strategy{
		Name:   "vlc",
		Binary: "vlc",
		Args: func(u, t string) []string {
			args := []string{"--fullscreen", "--play-and-exit"}
			if t != "" {
				args = append(args, "--meta-title="+t)
			}
			return append(args, u)
		},
	}
)

// Browser opens the URL with the platform's default handler
func Browser() Strategy {
	bin, prefix := browserCommand()
	return Strategy{
		Name:   "browser",
		Binary: bin,
		Args: func(u, _ string) []string {
			return append(append([]string{}, prefix...), u)
		},
		Detach: true,
	}
}

// Order returns the strategies to try for a default_player preference.
// The preferred one comes first and the others follow as fallbacks.
func Order(preference int) []Strategy {
	switch preference {
	case config.PlayerBrowser:
		return []Strategy{Browser(), MPV, VLC}
	case config.PlayerVLC:
		return []Strategy{VLC, MPV, Browser()}
	default:
		return []Strategy{MPV, VLC, Browser()}
	}
}

// Launcher runs the first available strategy, synchronously
type Launcher struct {
	strategies []Strategy
	lookPath   func(string) (string, error)
	run        func(cmd *exec.Cmd) error
}

// NewLauncher creates a launcher for the given preference
func NewLauncher(preference int) *Launcher {
	return &Launcher{
		strategies: Order(preference),
		lookPath:   exec.LookPath,
		run:        func(cmd *exec.Cmd) error { return cmd.Run() },
	}
}

// Strategies returns the candidates in the order they are tried
func (l *Launcher) Strategies() []Strategy {
	return append([]Strategy(nil), l.strategies...)
}

// Play opens url and blocks until the player exits. It returns the strategy that succeeded.
// Missing executables are skipped; a player that fails hands over to the next one.
func (l *Launcher) Play(ctx context.Context, url, title string) (Strategy, error) {
	var lastErr error
	for _, s := range l.strategies {
		path, err := l.lookPath(s.Binary)
		if err != nil {
			util.Debugf("%s not available: %v", s.Name, err)
			continue
		}

		cmd := exec.CommandContext(ctx, path, s.Args(url, title)...)
		if s.Detach {
			setProcessGroup(cmd)
		} else {
			cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		}
		util.Debugf("launching %s", cmd.String())

		if err := l.run(cmd); err != nil {
			if ctx.Err() != nil {
				return Strategy{}, ctx.Err()
			}
			util.Warnf("%s failed: %v", s.Name, err)
			lastErr = errors.Wrapf(ErrPlaybackFailed, "%s: %v", s.Name, err)
			continue
		}
		return s, nil
	}

	if lastErr != nil {
		return Strategy{}, lastErr
	}
	return Strategy{}, ErrPlayerNotFound
}
