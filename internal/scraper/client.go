// Package scraper provides the HTTP client and HTML extraction for anime-sama.fr and the sibnet video host
package scraper

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alvarorichard/animesama-cli/internal/config"
	"github.com/alvarorichard/animesama-cli/internal/util"
	"github.com/pkg/errors"
)

const (
	UserAgent      = "Mozilla/5.0 (X11; Linux x86_64; rv:134.0) Gecko/20100101 Firefox/134.0"
	AcceptLanguage = "en-US,en;q=0.5"
)

// ErrUnexpectedStatus is returned when a range request does not answer with a redirect.
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Client carries the browser-like headers and endpoints shared by every pipeline stage
type Client struct {
	client     *http.Client
	noRedirect *http.Client
	baseURL    string
	videoHost  string
	upcoming   string
	headers    http.Header
	debug      bool
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another anime-sama mirror
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithVideoHost overrides the sibnet origin
func WithVideoHost(host string) Option {
	return func(c *Client) { c.videoHost = strings.TrimRight(host, "/") }
}

// WithUpcomingURL overrides the animecountdown listing URL
func WithUpcomingURL(u string) Option {
	return func(c *Client) { c.upcoming = u }
}

// WithHTTPClient replaces both underlying clients; redirects stay disabled for range requests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
		noRedirect := *hc
		noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
		c.noRedirect = &noRedirect
	}
}

// WithDebug enables request tracing through the debug logger
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// NewClient creates a client with the default anime-sama and sibnet endpoints
func NewClient(opts ...Option) *Client {
	c := &Client{
		client:     util.NewHTTPClient(true),
		noRedirect: util.NewHTTPClient(false),
		baseURL:    config.DefaultBaseURL,
		videoHost:  config.DefaultVideoHost,
		upcoming:   config.UpcomingURL,
		headers: http.Header{
			"User-Agent":      {UserAgent},
			"Accept-Language": {AcceptLanguage},
			"Connection":      {"keep-alive"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the catalogue origin
func (c *Client) BaseURL() string { return c.baseURL }

// VideoHost returns the sibnet origin
func (c *Client) VideoHost() string { return c.videoHost }

// UpcomingURL returns the animecountdown listing URL
func (c *Client) UpcomingURL() string { return c.upcoming }

// Debug reports whether request tracing is on
func (c *Client) Debug() bool { return c.debug }

func (c *Client) newRequest(ctx context.Context, rawURL string, query url.Values, headers http.Header) (*http.Request, error) {
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}

func (c *Client) tracef(format string, args ...interface{}) {
	if c.debug {
		util.Debugf(format, args...)
	}
}

// Get fetches a page and returns its body as text. Non-2xx responses are errors.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, headers http.Header) (string, error) {
	req, err := c.newRequest(ctx, rawURL, query, headers)
	if err != nil {
		return "", err
	}
	c.tracef("GET %s", req.URL)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()

	c.tracef("GET %s -> %d", req.URL, resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Errorf("server returned %s for %s", resp.Status, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}
	return string(body), nil
}

// RangeRedirect issues a ranged GET without following redirects and returns the 302 Location.
// Protocol-relative locations are upgraded to https.
func (c *Client) RangeRedirect(ctx context.Context, rawURL, referer string) (string, error) {
	headers := http.Header{
		"Range":           {"bytes=0-"},
		"Accept-Encoding": {"identity"},
	}
	if referer != "" {
		headers.Set("Referer", referer)
	}

	req, err := c.newRequest(ctx, rawURL, nil, headers)
	if err != nil {
		return "", err
	}
	c.tracef("GET (range) %s", req.URL)

	resp, err := c.noRedirect.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch %s", rawURL)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	c.tracef("GET (range) %s -> %d", req.URL, resp.StatusCode)
	if resp.StatusCode != http.StatusFound {
		return "", errors.Wrapf(ErrUnexpectedStatus, "range request returned %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", errors.Wrap(ErrUnexpectedStatus, "redirect without location")
	}
	if strings.HasPrefix(location, "//") {
		location = "https:" + location
	}
	return location, nil
}
