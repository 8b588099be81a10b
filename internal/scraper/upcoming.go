package scraper

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/gocolly/colly"
	"github.com/pkg/errors"
)

// ctxTransport binds every request colly issues to the caller's context
type ctxTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// Upcoming scrapes the animecountdown trending list. Release times are now plus the
// per-card countdown in seconds. Cards without a usable countdown keep a zero ReleaseAt.
func (c *Client) Upcoming(ctx context.Context, now time.Time) ([]models.UpcomingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := c.client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	collector := colly.NewCollector(colly.UserAgent(UserAgent))
	collector.SetRequestTimeout(c.client.Timeout)
	collector.WithTransport(ctxTransport{ctx: ctx, base: base})

	var entries []models.UpcomingEntry
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", AcceptLanguage)
		c.tracef("GET %s", r.URL)
	})

	collector.OnHTML("a.countdown-content-trending-item", func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText("countdown-content-trending-item-title"))
		desc := strings.TrimSpace(e.ChildText("countdown-content-trending-item-desc"))
		raw := strings.TrimSpace(e.ChildAttr("countdown-content-trending-item-countdown", "data-time"))
		if title == "" {
			return
		}
		entry := models.UpcomingEntry{Title: title, Episode: desc, Kind: models.KindOf(desc)}
		if raw != "" {
			if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entry.ReleaseAt = now.Add(time.Duration(secs) * time.Second)
			} else {
				c.tracef("%q: bad countdown %q", title, raw)
			}
		}
		entries = append(entries, entry)
	})

	var visitErr error
	collector.OnError(func(r *colly.Response, err error) {
		visitErr = errors.Wrapf(err, "upcoming listing returned %d", r.StatusCode)
	})

	if err := collector.Visit(c.upcoming); err != nil && visitErr == nil {
		visitErr = errors.Wrap(err, "failed to fetch upcoming listing")
	}
	if visitErr != nil {
		return nil, visitErr
	}
	return entries, nil
}
