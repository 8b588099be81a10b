// Package animesama provides a public API for searching anime-sama.fr and resolving
// sibnet video URLs. This package can be used as a library in other Go projects.
package animesama

import (
	"context"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/scraper"
	"github.com/alvarorichard/animesama-cli/pkg/animesama/types"
	"github.com/pkg/errors"
)

// Errors callers can test with errors.Is
var (
	ErrNoAnime       = api.ErrNoAnime
	ErrNoSeasons     = api.ErrNoSeasons
	ErrNoEpisodeList = api.ErrNoEpisodeList
	ErrNoEpisodes    = api.ErrNoEpisodes
	ErrNoVideoURL    = api.ErrNoVideoURL
)

// Client is the main client for interacting with anime-sama
type Client struct {
	resolver *api.Resolver
}

type options struct {
	vf      bool
	scraper []scraper.Option
}

// Option configures a Client
type Option func(*options)

// WithVF searches the dubbed catalogue and rewrites season URLs to VF
func WithVF() Option {
	return func(o *options) { o.vf = true }
}

// WithBaseURL points the client at another anime-sama mirror
func WithBaseURL(base string) Option {
	return func(o *options) { o.scraper = append(o.scraper, scraper.WithBaseURL(base)) }
}

// WithVideoHost overrides the sibnet origin
func WithVideoHost(host string) Option {
	return func(o *options) { o.scraper = append(o.scraper, scraper.WithVideoHost(host)) }
}

// NewClient creates a new client
func NewClient(opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{resolver: api.NewResolver(scraper.NewClient(o.scraper...), o.vf)}
}

// SearchAnime searches the catalogue. ErrNoAnime is returned when nothing matches.
func (c *Client) SearchAnime(ctx context.Context, query string) ([]*types.Anime, error) {
	results, err := c.resolver.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return types.FromInternalAnimeList(results), nil
}

// GetSeasons lists the seasons of an anime obtained from SearchAnime
func (c *Client) GetSeasons(ctx context.Context, anime *types.Anime) ([]*types.Season, error) {
	if anime == nil {
		return nil, errors.New("anime is nil")
	}
	seasons, err := c.resolver.Seasons(ctx, anime.URL)
	if err != nil {
		return nil, err
	}

	out := make([]*types.Season, 0, len(seasons))
	for _, s := range seasons {
		seasonURL := c.resolver.SeasonURL(anime.URL, s)
		out = append(out, &types.Season{
			Name:  s.Name,
			Label: api.SeasonLabel(models.Season{Name: s.Name, Path: s.Path}, seasonURL),
			URL:   seasonURL,
		})
	}
	return out, nil
}

// GetEpisodes enumerates the episodes of a season URL
func (c *Client) GetEpisodes(ctx context.Context, seasonURL string) ([]*types.Episode, error) {
	m, err := c.resolver.Episodes(ctx, seasonURL)
	if err != nil {
		return nil, err
	}
	return types.FromEpisodeMap(seasonURL, m), nil
}

// GetStreamURL resolves the direct, playable URL of an episode
func (c *Client) GetStreamURL(ctx context.Context, episode *types.Episode) (string, error) {
	if episode == nil {
		return "", errors.New("episode is nil")
	}
	return c.resolver.ResolveVideo(ctx, episode.VideoID)
}
