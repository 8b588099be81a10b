// Package playback drives the interactive flows: search, history, planning and upcoming releases
package playback

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/player"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

// ErrBack returns the user to the previous menu
var ErrBack = errors.New("back")

// Launcher plays a resolved URL
type Launcher interface {
	Play(ctx context.Context, url, title string) (player.Strategy, error)
}

// Session bundles what the interactive flows need
type Session struct {
	Resolver *api.Resolver
	History  *api.HistoryService
	Player   Launcher
	Out      io.Writer
}

// NewSession creates a session writing to stdout
func NewSession(resolver *api.Resolver, history *api.HistoryService, launcher Launcher) *Session {
	return &Session{Resolver: resolver, History: history, Player: launcher, Out: os.Stdout}
}

func (s *Session) println(a ...interface{}) {
	_, _ = fmt.Fprintln(s.Out, a...)
}

// isCancel reports whether err comes from the user leaving a prompt
func isCancel(err error) bool {
	return errors.Is(err, ErrBack) ||
		errors.Is(err, promptui.ErrInterrupt) ||
		errors.Is(err, promptui.ErrEOF) ||
		errors.Is(err, fuzzyfinder.ErrAbort)
}

// outcomeMessages maps terminal pipeline outcomes to what the user sees
var outcomeMessages = []struct {
	err error
	msg string
}{
	{api.ErrNoAnime, "No anime found."},
	{api.ErrNoSeasons, "No seasons found."},
	{api.ErrNoEpisodeList, "Could not retrieve the episode list."},
	{api.ErrNoEpisodes, "No episodes found."},
	{api.ErrNoVideoURL, "Could not retrieve the video URL."},
	{api.ErrAlreadyLatest, "You are already at the latest episode."},
	{player.ErrPlayerNotFound, "No media player found. Install mpv or vlc."},
	{player.ErrPlaybackFailed, "Playback failed."},
	{ErrFirstEpisode, "You are already at the first episode."},
	{api.ErrNoHistory, "Watch history is unavailable."},
	{util.ErrEmptyInput, "Please enter a search term."},
}

// Handle reports err to the user so the caller can go back to its menu.
// Only a cancelled context is returned, which ends the session.
func (s *Session) Handle(err error) error {
	if err == nil || isCancel(err) {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	for _, o := range outcomeMessages {
		if errors.Is(err, o.err) {
			s.println(util.Warning(o.msg))
			util.Debugf("%+v", err)
			return nil
		}
	}
	s.println(util.ErrorHandler(err))
	return nil
}
