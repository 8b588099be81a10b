package playback

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alvarorichard/animesama-cli/internal/api"
	"github.com/alvarorichard/animesama-cli/internal/models"
	"github.com/alvarorichard/animesama-cli/internal/player"
	"github.com/alvarorichard/animesama-cli/internal/scraper"
	"github.com/alvarorichard/animesama-cli/internal/tracking"
	"github.com/goccy/go-json"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticStore struct {
	entries []models.HistoryEntry
}

func (s *staticStore) Upsert(context.Context, string, string, string, string) (tracking.Outcome, error) {
	return tracking.Inserted, nil
}

func (s *staticStore) List(context.Context) ([]models.HistoryEntry, error) {
	return s.entries, nil
}

func (s *staticStore) Delete(context.Context, int64) error { return nil }

func TestNeighbour(t *testing.T) {
	t.Parallel()

	m := models.NewEpisodeMap([]string{"a", "b", "c"})

	next, err := Neighbour(m, "2", 1)
	require.NoError(t, err)
	assert.Equal(t, "3", next)

	prev, err := Neighbour(m, "2", -1)
	require.NoError(t, err)
	assert.Equal(t, "1", prev)

	_, err = Neighbour(m, "3", 1)
	assert.True(t, errors.Is(err, api.ErrAlreadyLatest))

	_, err = Neighbour(m, "1", -1)
	assert.True(t, errors.Is(err, ErrFirstEpisode))

	_, err = Neighbour(m, "x", 1)
	assert.True(t, errors.Is(err, api.ErrNoEpisodes))
}

func TestHandleMapsOutcomes(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := &Session{Out: &out}

	assert.NoError(t, s.Handle(errors.Wrap(api.ErrNoSeasons, "https://anime-sama.fr/catalogue/x/")))
	assert.Contains(t, out.String(), "No seasons found.")

	assert.NoError(t, s.Handle(errors.Wrap(player.ErrPlayerNotFound, "lookup")))
	assert.NoError(t, s.Handle(fuzzyfinder.ErrAbort))
	assert.NoError(t, s.Handle(nil))

	out.Reset()
	assert.NoError(t, s.Handle(errors.Wrap(player.ErrPlaybackFailed, "mpv: exit status 2")))
	assert.Contains(t, out.String(), "Playback failed.")

	out.Reset()
	assert.NoError(t, s.Handle(errors.New("boom")))
	assert.Contains(t, out.String(), "boom")

	cancelled := errors.Wrap(context.Canceled, "catalogue search failed")
	assert.Equal(t, cancelled, s.Handle(cancelled))
}

func TestHandleReportsNetworkFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	resolver := api.NewResolver(scraper.NewClient(scraper.WithBaseURL(server.URL)), false)
	_, err := resolver.Search(context.Background(), "naruto")
	require.Error(t, err)

	var out bytes.Buffer
	s := &Session{Resolver: resolver, Out: &out}
	assert.NoError(t, s.Handle(err))
	assert.Contains(t, out.String(), "503")
}

func TestHistoryItem(t *testing.T) {
	t.Parallel()

	v := api.HistoryView{HistoryEntry: models.HistoryEntry{AnimeName: "Naruto", Season: "Saison 1 - VOSTFR", Episode: "Episode 3"}}
	assert.Equal(t, "Naruto - Saison 1 - VOSTFR - Episode 3", HistoryItem(v, false))
	assert.Equal(t, "Naruto - Saison 1 - VOSTFR - Episode 3 [?]", HistoryItem(v, true))

	v.Checked, v.IsLatest = true, true
	assert.Contains(t, HistoryItem(v, true), "[up to date]")
	v.IsLatest = false
	assert.Contains(t, HistoryItem(v, true), "[new episodes]")
}

func TestExportHistory(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	store := &staticStore{entries: []models.HistoryEntry{
		{ID: 7, AnimeName: "Frieren", Episode: "Episode 4", Season: "Saison 1 - VOSTFR", URL: "u", Timestamp: ts},
	}}
	s := &Session{History: api.NewHistoryService(store, nil)}

	var out bytes.Buffer
	require.NoError(t, s.ExportHistory(context.Background(), &out, false))

	var decoded []models.HistoryEntry
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, int64(7), decoded[0].ID)
	assert.True(t, ts.Equal(decoded[0].Timestamp))
}

func TestExportEmptyHistoryIsArray(t *testing.T) {
	t.Parallel()

	s := &Session{History: api.NewHistoryService(&staticStore{}, nil)}
	var out bytes.Buffer
	require.NoError(t, s.ExportHistory(context.Background(), &out, false))
	assert.Equal(t, "[]\n", out.String())
}
