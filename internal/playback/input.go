package playback

import (
	"strconv"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/pkg/errors"
)

// Action is a choice offered after an episode ends
type Action int

const (
	ActionNext Action = iota
	ActionPrevious
	ActionSelect
	ActionQuit
)

var actionLabels = []string{
	"Next episode",
	"Previous episode",
	"Select episode",
	"Quit",
}

// ErrFirstEpisode is returned when stepping back from the first episode
var ErrFirstEpisode = errors.New("already at the first episode")

// PromptAction asks what to do after an episode
func PromptAction() (Action, error) {
	idx, _, err := util.SelectMenuItem("Playback Control", actionLabels)
	if err != nil {
		return ActionQuit, err
	}
	return Action(idx), nil
}

// Neighbour returns the key delta positions away from current in the episode order
func Neighbour(episodes models.EpisodeMap, current string, delta int) (string, error) {
	keys := episodes.Keys()
	pos := -1
	for i, k := range keys {
		if k == current {
			pos = i
			break
		}
	}
	if pos < 0 {
		n, err := strconv.Atoi(current)
		if err != nil {
			return "", errors.Wrapf(api.ErrNoEpisodes, "episode %q", current)
		}
		// current lies outside the map; fall back to numeric neighbours
		if delta > 0 {
			return api.NextEpisode(api.EpisodeLabel(strconv.Itoa(n)), episodes)
		}
		return "", ErrFirstEpisode
	}

	target := pos + delta
	switch {
	case target >= len(keys):
		return "", errors.Wrapf(api.ErrAlreadyLatest, "episode %s", current)
	case target < 0:
		return "", ErrFirstEpisode
	}
	return keys[target], nil
}
