// Package types provides public type definitions for the animesama library
package types

import (
	"github.com/alvarorichard/animesama-cli/internal/models"
)

// Anime is a catalogue search result
type Anime struct {
	// Name is the title shown in the catalogue
	Name string `json:"name"`
	// URL is the catalogue detail page
	URL string `json:"url"`
}

// Season is one season (or OAV, special...) of an anime
type Season struct {
	Name string `json:"name"`
	// Label is the normalized name, e.g. "Saison 2 - VOSTFR"
	Label string `json:"label"`
	// URL is the absolute season page, ready for GetEpisodes
	URL string `json:"url"`
}

// Episode is a positional episode of a season
type Episode struct {
	// Number is the positional key, "1" for the first embed of the season
	Number string `json:"number"`
	// VideoID is the sibnet video identifier
	VideoID string `json:"video_id"`
	// SeasonURL is the season the episode belongs to
	SeasonURL string `json:"season_url"`
}

// FromInternalAnimeList converts catalogue entries
func FromInternalAnimeList(entries []models.CatalogueEntry) []*Anime {
	out := make([]*Anime, 0, len(entries))
	for _, e := range entries {
		out = append(out, &Anime{Name: e.Title, URL: e.DetailURL})
	}
	return out
}

// FromEpisodeMap converts an episode map, keeping its order
func FromEpisodeMap(seasonURL string, m models.EpisodeMap) []*Episode {
	keys := m.Keys()
	out := make([]*Episode, 0, len(keys))
	for _, k := range keys {
		id, _ := m.VideoID(k)
		out = append(out, &Episode{Number: k, VideoID: id, SeasonURL: seasonURL})
	}
	return out
}
