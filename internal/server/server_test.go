package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobin/pressfeed/internal/scraper"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/briefings-statements/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div><a href="/briefings-statements/press-briefing-by-the-secretary/">Press Briefing by the Secretary</a><span>November 14, 2025</span></div>`)
	})
	mux.HandleFunc("/briefings-statements/press-briefing-by-the-secretary/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<article><p>A statement body long enough to survive extraction.</p></article>`)
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	cfg := testConfig()
	cfg.ListingURL = backend.URL + "/briefings-statements/"
	cfg.BaseURL = backend.URL
	cfg.UserAgent = "test-agent"
	cfg.FetchTimeout = 5 * time.Second

	return New(scraper.New(cfg), cfg)
}

func TestServer_RSSBeforeScrape(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ScrapeThenRSS(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Scraped 1 entries")

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss.xml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	assert.Contains(t, rec.Body.String(), "Press Briefing by the Secretary")
	assert.Contains(t, rec.Body.String(), "A statement body long enough to survive extraction.")
}

func TestServer_StatusAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"stage"`)
}
