// Package models contains the data structures shared by the scraper, the
// resolution pipeline and the history store
package models

import (
	"strconv"
	"time"
)

// Version is the language tag carried by anime-sama season paths
type Version string

const (
	VersionVOSTFR Version = "VOSTFR"
	VersionVF     Version = "VF"
)

// CatalogueEntry is one search result from the catalogue page
type CatalogueEntry struct {
	Title     string `json:"title"`
	DetailURL string `json:"detail_url"`
}

// Season groups the episodes of one anime, identified by a relative path
// such as "saison1/vostfr"
type Season struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// EpisodeMap associates a positional episode key ("1", "2", ...) with an
// opaque video identifier. Keys keeps the order in which the embeds appeared.
type EpisodeMap struct {
	keys []string
	ids  map[string]string
}

// NewEpisodeMap builds a map from video ids listed in source order.
func NewEpisodeMap(videoIDs []string) EpisodeMap {
	m := EpisodeMap{
		keys: make([]string, 0, len(videoIDs)),
		ids:  make(map[string]string, len(videoIDs)),
	}
	for i, id := range videoIDs {
		key := strconv.Itoa(i + 1)
		m.keys = append(m.keys, key)
		m.ids[key] = id
	}
	return m
}

func (m EpisodeMap) Len() int { return len(m.keys) }

// Keys returns a copy of the episode keys in source order.
func (m EpisodeMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// VideoID returns the video identifier stored under key.
func (m EpisodeMap) VideoID(key string) (string, bool) {
	id, ok := m.ids[key]
	return id, ok
}

// Last returns the highest positional key, or "" for an empty map.
func (m EpisodeMap) Last() string {
	if len(m.keys) == 0 {
		return ""
	}
	return m.keys[len(m.keys)-1]
}

// HistoryEntry is the persisted last-watched episode of one (anime, season)
type HistoryEntry struct {
	ID        int64     `json:"id"`
	AnimeName string    `json:"anime_name"`
	Episode   string    `json:"episode"`
	Season    string    `json:"season"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}
