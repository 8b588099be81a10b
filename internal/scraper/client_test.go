package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsBrowserHeadersAndQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, AcceptLanguage, r.Header.Get("Accept-Language"))
		assert.Equal(t, "https://anime-sama.fr/", r.Header.Get("Referer"))
		assert.Equal(t, "naruto", r.URL.Query().Get("search"))
		assert.Equal(t, "VF", r.URL.Query().Get("langue[]"))
		_, _ = fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	body, err := client.Get(context.Background(), server.URL+"/catalogue/",
		url.Values{"search": {"naruto"}, "langue[]": {"VF"}},
		http.Header{"Referer": {"https://anime-sama.fr/"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", body)
}

func TestGetRejectsNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient().Get(context.Background(), server.URL, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRangeRedirectReturnsLocation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-", r.Header.Get("Range"))
		assert.Equal(t, "identity", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "https://video.sibnet.ru/", r.Header.Get("Referer"))
		w.Header().Set("Location", "//dv98.sibnet.ru/44/55/file.mp4?st=abc")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	loc, err := NewClient().RangeRedirect(context.Background(), server.URL+"/v/hash/1.mp4", "https://video.sibnet.ru/")
	require.NoError(t, err)
	assert.Equal(t, "https://dv98.sibnet.ru/44/55/file.mp4?st=abc", loc)
}

func TestRangeRedirectUnexpectedStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
	}))
	defer server.Close()

	_, err := NewClient().RangeRedirect(context.Background(), server.URL, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
}

func TestGetHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "late")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient().Get(ctx, server.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
