package sitemap

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentguard/internal/crawler"
	"contentguard/internal/retry"
	"contentguard/pkg/logger"
)

func urlset(locs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	for _, l := range locs {
		fmt.Fprintf(&b, "<url><loc>%s</loc></url>", l)
	}
	b.WriteString("</urlset>")
	return b.String()
}

// sitemapServer serves canned responses per path and counts requests.
type sitemapServer struct {
	*httptest.Server
	mu    sync.Mutex
	hits  map[string]int
	route func(path string, hit int, w http.ResponseWriter)
}

func newSitemapServer(t *testing.T, route func(path string, hit int, w http.ResponseWriter)) *sitemapServer {
	s := &sitemapServer{hits: map[string]int{}, route: route}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		hit := s.hits[r.URL.Path]
		s.mu.Unlock()
		s.route(r.URL.Path, hit, w)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *sitemapServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *sitemapServer) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

func newTestFetcher(endpoints []string, concurrency int) *Fetcher {
	client := crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20, "")
	return NewFetcher(client, Options{
		Endpoints:   endpoints,
		Retry:       retry.Policy{Attempts: 3},
		Concurrency: concurrency,
		Logger:      logger.Discard(),
	})
}

func TestFetchFiltersDedupesAndKeepsOrder(t *testing.T) {
	srv := newSitemapServer(t, func(path string, hit int, w http.ResponseWriter) {
		switch path {
		case "/one.xml":
			_, _ = w.Write([]byte(urlset(
				"https://example.com/blog/b-post/",
				"https://example.com/blog/tag/seo/",
				"https://example.com/blog/a-post/",
			)))
		case "/two.xml":
			_, _ = w.Write([]byte(urlset(
				"https://example.com/blog/a-post/",
				"https://example.com/blog/wp-content/uploads/x.png",
				"https://example.com/blog/c-post/",
				"https://example.com/about/",
			)))
		}
	})

	for _, conc := range []int{1, 4} {
		f := newTestFetcher([]string{srv.URL + "/one.xml", srv.URL + "/two.xml"}, conc)
		res, err := f.Fetch(context.Background())
		require.NoError(t, err)
		assert.Empty(t, res.Warnings)
		assert.Equal(t, []string{
			"https://example.com/blog/b-post/",
			"https://example.com/blog/a-post/",
			"https://example.com/blog/c-post/",
		}, []string(res.URLs))
		assert.False(t, res.FetchedAt.IsZero())
	}
}

func TestFetchRetriesAndToleratesFailures(t *testing.T) {
	srv := newSitemapServer(t, func(path string, hit int, w http.ResponseWriter) {
		switch path {
		case "/flaky.xml":
			if hit < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(urlset("https://example.com/blog/flaky-post/")))
		case "/down.xml":
			w.WriteHeader(http.StatusInternalServerError)
		case "/broken.xml":
			_, _ = w.Write([]byte("<urlset><url><loc>https://example.com/blog/x/"))
		case "/empty.xml":
		case "/ok.xml":
			_, _ = w.Write([]byte(urlset("https://example.com/blog/ok-post/")))
		}
	})

	endpoints := []string{
		srv.URL + "/flaky.xml",
		srv.URL + "/down.xml",
		srv.URL + "/broken.xml",
		srv.URL + "/empty.xml",
		srv.URL + "/ok.xml",
	}
	res, err := newTestFetcher(endpoints, 2).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/blog/flaky-post/",
		"https://example.com/blog/ok-post/",
	}, []string(res.URLs))

	require.Len(t, res.Warnings, 3)
	assert.Equal(t, srv.URL+"/down.xml", res.Warnings[0].Endpoint)
	assert.Equal(t, srv.URL+"/broken.xml", res.Warnings[1].Endpoint)
	assert.Equal(t, srv.URL+"/empty.xml", res.Warnings[2].Endpoint)
	for _, w := range res.Warnings {
		assert.Equal(t, 3, w.Attempts)
		assert.NotEmpty(t, w.Error)
	}
	assert.Contains(t, res.Warnings[0].Error, "http status 500")

	assert.Equal(t, 3, srv.count("/flaky.xml"))
	assert.Equal(t, 3, srv.count("/down.xml"))
	assert.Equal(t, 1, srv.count("/ok.xml"))
}

func TestFetchAllFailedGivesEmptyInventory(t *testing.T) {
	srv := newSitemapServer(t, func(path string, hit int, w http.ResponseWriter) {
		w.WriteHeader(http.StatusForbidden)
	})
	res, err := newTestFetcher([]string{srv.URL + "/a.xml", srv.URL + "/b.xml"}, 1).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.URLs)
	assert.Len(t, res.Warnings, 2)
}

func TestFetchCancelled(t *testing.T) {
	srv := newSitemapServer(t, func(path string, hit int, w http.ResponseWriter) {
		_, _ = w.Write([]byte(urlset("https://example.com/blog/a/")))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestFetcher([]string{srv.URL + "/a.xml"}, 1).Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchLogsTimingRedirectsAndWarnings(t *testing.T) {
	srv := newSitemapServer(t, func(path string, hit int, w http.ResponseWriter) {
		switch path {
		case "/old.xml":
			w.Header().Set("Location", "/new.xml")
			w.WriteHeader(http.StatusMovedPermanently)
		case "/new.xml":
			_, _ = w.Write([]byte(urlset("https://example.com/blog/moved-post/")))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	var buf bytes.Buffer
	client := crawler.NewHTTPClient(5*time.Second, 2*time.Second, 1<<20, "")
	f := NewFetcher(client, Options{
		Endpoints: []string{srv.URL + "/old.xml", srv.URL + "/gone.xml"},
		Retry:     retry.Policy{Attempts: 2},
		Logger:    logger.NewWithWriter(&buf, true),
	})
	res, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/blog/moved-post/"}, []string(res.URLs))

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] sitemap "+srv.URL+"/old.xml redirected to "+srv.URL+"/new.xml")
	assert.Contains(t, out, "1 entries in")
	assert.Contains(t, out, "[WARN] could not fetch sitemap "+srv.URL+"/gone.xml after 2 attempts: http status 404")
}
