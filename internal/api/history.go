package api

import (
	"context"
	"fmt"

	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/tracking"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/pkg/errors"
)

// ErrNoHistory is returned by list and delete when no store could be opened
var ErrNoHistory = errors.New("watch history is unavailable")

// HistoryStore is the subset of tracking.Store the pipeline needs
type HistoryStore interface {
	Upsert(ctx context.Context, animeName, episode, season, url string) (tracking.Outcome, error)
	List(ctx context.Context) ([]models.HistoryEntry, error)
	Delete(ctx context.Context, id int64) error
}

// Playable is a resolved episode ready to hand to a player
type Playable struct {
	AnimeName   string `json:"anime_name"`
	SeasonLabel string `json:"season"`
	SeasonURL   string `json:"season_url"`
	EpisodeKey  string `json:"episode"`
	VideoURL    string `json:"video_url"`
}

// HistoryView is a history entry annotated by the full check
type HistoryView struct {
	models.HistoryEntry
	// Checked is false when the season could not be re-enumerated
	Checked  bool `json:"checked"`
	IsLatest bool `json:"is_latest"`
}

// HistoryService ties the history store to the resolver
type HistoryService struct {
	store    HistoryStore
	resolver *Resolver
}

func NewHistoryService(store HistoryStore, resolver *Resolver) *HistoryService {
	return &HistoryService{store: store, resolver: resolver}
}

// EpisodeLabel formats a positional key the way history stores it
func EpisodeLabel(key string) string {
	return fmt.Sprintf("Episode %s", key)
}

// Record saves progress after a successful playback. Failures are logged and
// reported through the return value only; they never interrupt playback.
func (h *HistoryService) Record(ctx context.Context, p Playable) bool {
	if h == nil || h.store == nil {
		util.Debug("history unavailable, skipping record")
		return false
	}
	outcome, err := h.store.Upsert(ctx, p.AnimeName, EpisodeLabel(p.EpisodeKey), p.SeasonLabel, p.SeasonURL)
	if err != nil {
		util.Warnf("could not save history for %s: %v", p.AnimeName, err)
		return false
	}
	util.Debug("history saved", "anime", p.AnimeName, "episode", p.EpisodeKey, "outcome", outcome)
	return true
}

// List returns the stored entries, most recent first
func (h *HistoryService) List(ctx context.Context) ([]models.HistoryEntry, error) {
	if h == nil || h.store == nil {
		return nil, ErrNoHistory
	}
	return h.store.List(ctx)
}

// Delete removes one entry
func (h *HistoryService) Delete(ctx context.Context, id int64) error {
	if h == nil || h.store == nil {
		return ErrNoHistory
	}
	return h.store.Delete(ctx, id)
}

// Decorate re-enumerates every entry's season and flags the ones already at their last
// episode. Entries whose season cannot be fetched stay unchecked. The store is not modified.
func (h *HistoryService) Decorate(ctx context.Context, entries []models.HistoryEntry) []HistoryView {
	views := make([]HistoryView, 0, len(entries))
	for _, e := range entries {
		view := HistoryView{HistoryEntry: e}
		if e.URL != "" {
			episodes, err := h.resolver.Episodes(ctx, e.URL)
			if err != nil {
				util.Debugf("full check of %s failed: %v", e.AnimeName, err)
			} else {
				view.Checked = true
				view.IsLatest = IsLatest(e.Episode, episodes)
			}
		}
		views = append(views, view)
	}
	return views
}

// Continue resolves the episode following the one stored in entry.
// ErrAlreadyLatest is returned when the season has nothing newer.
func (h *HistoryService) Continue(ctx context.Context, entry models.HistoryEntry) (Playable, error) {
	if entry.URL == "" {
		return Playable{}, errors.Wrapf(ErrNoEpisodeList, "%s has no season URL", entry.AnimeName)
	}

	episodes, err := h.resolver.Episodes(ctx, entry.URL)
	if err != nil {
		return Playable{}, err
	}
	next, err := NextEpisode(entry.Episode, episodes)
	if err != nil {
		return Playable{}, err
	}
	id, _ := episodes.VideoID(next)

	videoURL, err := h.resolver.ResolveVideo(ctx, id)
	if err != nil {
		return Playable{}, err
	}
	return Playable{
		AnimeName:   entry.AnimeName,
		SeasonLabel: entry.Season,
		SeasonURL:   entry.URL,
		EpisodeKey:  next,
		VideoURL:    videoURL,
	}, nil
}
