package models

import (
	"strings"
	"time"
)

// ScheduleDay lists the releases announced on the planning page for one day
type ScheduleDay struct {
	Day     string          `json:"day"`
	Entries []ScheduleEntry `json:"entries"`
}

// ScheduleEntry is one anime card of the planning page. Path is relative to
// the catalogue root.
type ScheduleEntry struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Time    string `json:"time"`
	Version string `json:"version"`
}

// ReleaseKind classifies an upcoming release
type ReleaseKind string

const (
	KindEpisode ReleaseKind = "episode"
	KindMovie   ReleaseKind = "movie"
	KindOVA     ReleaseKind = "ova"
)

// UpcomingEntry is a release listed on the countdown site
type UpcomingEntry struct {
	Title     string      `json:"title"`
	Episode   string      `json:"episode"`
	ReleaseAt time.Time   `json:"release_at"`
	Kind      ReleaseKind `json:"kind"`
}

// KindOf classifies a countdown description such as "Episode 5", "Movie" or "OVA 2"
func KindOf(desc string) ReleaseKind {
	lower := strings.ToLower(desc)
	switch {
	case strings.Contains(lower, "movie"):
		return KindMovie
	case strings.Contains(lower, "ova"):
		return KindOVA
	default:
		return KindEpisode
	}
}
