package playback

import (
	"context"
	"fmt"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/charmbracelet/huh/spinner"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"
)

// withSpinner runs fn behind a spinner and returns its error
func withSpinner(title string, fn func() error) error {
	var err error
	if spinErr := spinner.New().
		Title(title).
		Type(spinner.Dots).
		Action(func() { err = fn() }).
		Run(); spinErr != nil {
		return spinErr
	}
	return err
}

// Search runs the full flow from a query to playback
func (s *Session) Search(ctx context.Context, query string) error {
	s.println(util.Title("🔍 Searching for: " + query))

	var results []models.CatalogueEntry
	if err := withSpinner("Searching the catalogue...", func() (err error) {
		results, err = s.Resolver.Search(ctx, query)
		return err
	}); err != nil {
		return s.Handle(err)
	}

	titles := make([]string, len(results))
	for i, r := range results {
		titles[i] = r.Title
	}
	idx, _, err := util.SelectMenuItem("Select an anime", titles)
	if err != nil {
		return s.Handle(err)
	}
	anime := results[idx]
	util.Debugf("anime URL: %s", anime.DetailURL)

	return s.Handle(s.chooseSeason(ctx, anime))
}

func (s *Session) chooseSeason(ctx context.Context, anime models.CatalogueEntry) error {
	var seasons []models.Season
	if err := withSpinner("Loading seasons...", func() (err error) {
		seasons, err = s.Resolver.Seasons(ctx, anime.DetailURL)
		return err
	}); err != nil {
		return err
	}

	names := make([]string, len(seasons))
	for i, season := range seasons {
		names[i] = season.Name
	}
	idx, _, err := util.SelectMenuItem("Select a season", names)
	if err != nil {
		return err
	}

	seasonURL := s.Resolver.SeasonURL(anime.DetailURL, seasons[idx])
	util.Debugf("season URL: %s", seasonURL)
	return s.watchSeason(ctx, anime.Title, api.SeasonLabel(seasons[idx], seasonURL), seasonURL)
}

// watchSeason enumerates a season, lets the user pick an episode and plays from there
func (s *Session) watchSeason(ctx context.Context, animeName, label, seasonURL string) error {
	var episodes models.EpisodeMap
	if err := withSpinner("Loading episodes...", func() (err error) {
		episodes, err = s.Resolver.Episodes(ctx, seasonURL)
		return err
	}); err != nil {
		return err
	}

	key, err := SelectEpisode(episodes)
	if err != nil {
		return err
	}

	return s.playLoop(ctx, api.Playable{
		AnimeName:   animeName,
		SeasonLabel: label,
		SeasonURL:   seasonURL,
		EpisodeKey:  key,
	}, episodes)
}

// SelectEpisode lets the user pick an episode key with the fuzzy finder
func SelectEpisode(episodes models.EpisodeMap) (string, error) {
	keys := episodes.Keys()
	if len(keys) == 0 {
		return "", api.ErrNoEpisodes
	}

	idx, err := fuzzyfinder.Find(
		keys,
		func(i int) string {
			return api.EpisodeLabel(keys[i])
		},
		fuzzyfinder.WithPromptString("Select the episode: "),
	)
	if err != nil {
		return "", errors.Wrap(err, "failed to select episode with go-fuzzyfinder")
	}
	if idx < 0 || idx >= len(keys) {
		return "", errors.New("invalid index returned by fuzzyfinder")
	}
	return keys[idx], nil
}

// resolveAndPlay fetches the video URL for p.EpisodeKey, plays it and records history
func (s *Session) resolveAndPlay(ctx context.Context, p api.Playable) error {
	if p.VideoURL == "" {
		if err := withSpinner(fmt.Sprintf("Fetching episode %s...", p.EpisodeKey), func() (err error) {
			p.VideoURL, err = s.Resolver.ResolveEpisode(ctx, p.SeasonURL, p.EpisodeKey)
			return err
		}); err != nil {
			return err
		}
	}
	util.Debugf("video URL: %s", p.VideoURL)

	title := fmt.Sprintf("%s - %s - %s", p.AnimeName, p.SeasonLabel, api.EpisodeLabel(p.EpisodeKey))
	used, err := s.Player.Play(ctx, p.VideoURL, title)
	if err != nil {
		return err
	}
	s.println(util.Success(fmt.Sprintf("Played %s with %s", api.EpisodeLabel(p.EpisodeKey), used.Name)))

	if s.History.Record(ctx, p) {
		s.println(util.Success("History updated"))
	} else {
		s.println(util.Warning("History not updated"))
	}
	return nil
}

// playLoop plays p then offers next / previous / select / quit until the user leaves
func (s *Session) playLoop(ctx context.Context, p api.Playable, episodes models.EpisodeMap) error {
	for {
		if err := s.resolveAndPlay(ctx, p); err != nil {
			if handled := s.Handle(err); handled != nil {
				return handled
			}
		}

		next, err := s.nextKey(episodes, p.EpisodeKey)
		if err != nil || next == "" {
			return err
		}
		p.EpisodeKey, p.VideoURL = next, ""
	}
}

// nextKey asks what to watch after current. An empty key means the user is done.
func (s *Session) nextKey(episodes models.EpisodeMap, current string) (string, error) {
	for {
		action, err := PromptAction()
		if err != nil {
			if isCancel(err) {
				return "", nil
			}
			return "", err
		}

		var next string
		switch action {
		case ActionNext:
			next, err = Neighbour(episodes, current, 1)
		case ActionPrevious:
			next, err = Neighbour(episodes, current, -1)
		case ActionSelect:
			next, err = SelectEpisode(episodes)
		default:
			return "", nil
		}
		if err == nil {
			return next, nil
		}
		if handled := s.Handle(err); handled != nil {
			return "", handled
		}
	}
}
