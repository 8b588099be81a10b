// Package api orchestrates the anime-sama resolution pipeline: catalogue search,
// season discovery, episode enumeration and sibnet video URL resolution.
package api

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/scraper"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// Terminal outcomes of the pipeline stages. They are normal results, not failures of the program.
var (
	ErrNoAnime       = errors.New("no anime found")
	ErrNoSeasons     = errors.New("no seasons found")
	ErrNoEpisodeList = errors.New("could not retrieve the episode list")
	ErrNoEpisodes    = errors.New("no episodes found")
	ErrNoVideoURL    = errors.New("could not retrieve the video URL")
	ErrAlreadyLatest = errors.New("already at the latest episode")
)

const episodeCacheTTL = 10 * time.Minute

// Resolver runs the pipeline stages against one client. VF selects the dubbed catalogue.
type Resolver struct {
	client   *scraper.Client
	VF       bool
	episodes *cache.Cache
}

// NewResolver creates a resolver; episode maps are memoized per season URL
func NewResolver(client *scraper.Client, vf bool) *Resolver {
	return &Resolver{
		client:   client,
		VF:       vf,
		episodes: cache.New(episodeCacheTTL, 2*episodeCacheTTL),
	}
}

// Client exposes the underlying scraper client
func (r *Resolver) Client() *scraper.Client { return r.client }

// rewrite points a VOSTFR URL at its VF counterpart when VF is on
func (r *Resolver) rewrite(u string) string {
	if !r.VF {
		return u
	}
	return strings.ReplaceAll(u, "vostfr", "vf")
}

// Search queries the catalogue. An empty result is ErrNoAnime.
func (r *Resolver) Search(ctx context.Context, query string) ([]models.CatalogueEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.Wrap(ErrNoAnime, "empty query")
	}

	base := r.client.BaseURL()
	params := url.Values{
		"search": {query},
		"type[]": {"Anime"},
	}
	if r.VF {
		params.Set("langue[]", "VF")
	}

	start := time.Now()
	html, err := r.client.Get(ctx, base+"/catalogue/", params, http.Header{"Referer": {base + "/catalogue/"}})
	if err != nil {
		return nil, errors.Wrap(err, "catalogue search failed")
	}

	entries := scraper.ExtractCatalogue(html, base)
	for i := range entries {
		entries[i].DetailURL = r.rewrite(entries[i].DetailURL)
	}
	util.Debugf("search %q: %d results in %s", query, len(entries), time.Since(start))

	if len(entries) == 0 {
		return nil, errors.Wrapf(ErrNoAnime, "query %q", query)
	}
	return entries, nil
}

// Seasons lists the seasons of a catalogue detail page. An empty result is ErrNoSeasons.
func (r *Resolver) Seasons(ctx context.Context, detailURL string) ([]models.Season, error) {
	html, err := r.client.Get(ctx, detailURL, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch anime page")
	}
	seasons := scraper.ExtractSeasons(html)
	util.Debugf("%s: %d seasons", detailURL, len(seasons))
	if len(seasons) == 0 {
		return nil, errors.Wrap(ErrNoSeasons, detailURL)
	}
	return seasons, nil
}

// SeasonURL joins a detail page URL and a relative season path
func (r *Resolver) SeasonURL(detailURL string, season models.Season) string {
	return r.rewrite(strings.TrimRight(detailURL, "/") + "/" + strings.TrimLeft(season.Path, "/"))
}

// EpisodeVersion reads the filever token from a season page
func (r *Resolver) EpisodeVersion(ctx context.Context, seasonURL string) (string, error) {
	html, err := r.client.Get(ctx, r.rewrite(seasonURL), nil, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch season page")
	}
	version, ok := scraper.ExtractEpisodeVersion(html)
	if !ok {
		return "", errors.Wrap(ErrNoEpisodeList, seasonURL)
	}
	return version, nil
}

// Episodes enumerates the sibnet episodes of a season. An empty script is ErrNoEpisodes.
func (r *Resolver) Episodes(ctx context.Context, seasonURL string) (models.EpisodeMap, error) {
	seasonURL = r.rewrite(seasonURL)
	if cached, ok := r.episodes.Get(seasonURL); ok {
		return cached.(models.EpisodeMap), nil
	}

	version, err := r.EpisodeVersion(ctx, seasonURL)
	if err != nil {
		return models.EpisodeMap{}, err
	}

	script, err := r.client.Get(ctx, strings.TrimRight(seasonURL, "/")+"/episodes.js",
		url.Values{"filever": {version}}, nil)
	if err != nil {
		return models.EpisodeMap{}, errors.Wrap(err, "failed to fetch episode script")
	}

	episodes := scraper.ExtractEpisodeMap(script)
	util.Debugf("%s: %d episodes (filever %s)", seasonURL, episodes.Len(), version)
	if episodes.Len() == 0 {
		return models.EpisodeMap{}, errors.Wrap(ErrNoEpisodes, seasonURL)
	}

	r.episodes.Set(seasonURL, episodes, cache.DefaultExpiration)
	return episodes, nil
}

// ResolveVideo turns a sibnet video id into a direct, playable URL
func (r *Resolver) ResolveVideo(ctx context.Context, videoID string) (string, error) {
	host := r.client.VideoHost()
	html, err := r.client.Get(ctx, host+"/shell.php", url.Values{"videoid": {videoID}}, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to fetch video page")
	}

	direct, ok := scraper.ExtractVideoURL(html, host, videoID)
	if !ok {
		return "", errors.Wrapf(ErrNoVideoURL, "video %s: player source not found", videoID)
	}
	util.Debugf("video %s: %s", videoID, direct)

	location, err := r.client.RangeRedirect(ctx, direct, host+"/")
	if err != nil {
		return "", errors.Wrapf(ErrNoVideoURL, "video %s: %v", videoID, err)
	}
	return location, nil
}

// ResolveEpisode resolves the video URL of one episode key of a season
func (r *Resolver) ResolveEpisode(ctx context.Context, seasonURL, key string) (string, error) {
	episodes, err := r.Episodes(ctx, seasonURL)
	if err != nil {
		return "", err
	}
	id, ok := episodes.VideoID(key)
	if !ok {
		return "", errors.Wrapf(ErrNoEpisodes, "episode %s not in %s", key, seasonURL)
	}
	return r.ResolveVideo(ctx, id)
}

// Schedule fetches the weekly planning
func (r *Resolver) Schedule(ctx context.Context) ([]models.ScheduleDay, error) {
	base := r.client.BaseURL()
	html, err := r.client.Get(ctx, base+"/planning/", nil, http.Header{"Referer": {base + "/planning/"}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch planning")
	}
	return scraper.ExtractSchedule(html), nil
}

// PlanningURL is the season URL of a planning card
func (r *Resolver) PlanningURL(entry models.ScheduleEntry) string {
	return r.rewrite(r.client.BaseURL() + "/catalogue/" + strings.TrimLeft(entry.Path, "/"))
}

// Upcoming fetches the release countdown list, sorted by release time.
// Entries without a release time come last in page order.
func (r *Resolver) Upcoming(ctx context.Context) ([]models.UpcomingEntry, error) {
	entries, err := r.client.Upcoming(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].ReleaseAt, entries[j].ReleaseAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
	return entries, nil
}

var trailingNumber = regexp.MustCompile(`(\d+)\s*$`)

// EpisodeNumber extracts N from "Episode N". Unparseable labels give 0.
func EpisodeNumber(label string) int {
	m := trailingNumber.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// NextEpisode returns the smallest key of m strictly greater than the number in current
func NextEpisode(current string, m models.EpisodeMap) (string, error) {
	after := EpisodeNumber(current)
	best, bestN := "", 0
	for _, key := range m.Keys() {
		n, err := strconv.Atoi(key)
		if err != nil || n <= after {
			continue
		}
		if best == "" || n < bestN {
			best, bestN = key, n
		}
	}
	if best == "" {
		return "", errors.Wrapf(ErrAlreadyLatest, "%s of %d", current, m.Len())
	}
	return best, nil
}

// IsLatest reports whether episode is the highest key of m
func IsLatest(episode string, m models.EpisodeMap) bool {
	if m.Len() == 0 {
		return false
	}
	last, err := strconv.Atoi(m.Last())
	return err == nil && EpisodeNumber(episode) == last
}
