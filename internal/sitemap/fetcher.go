// Package sitemap builds the blog post inventory from a fixed list of sitemap
// endpoints and keeps it in a time-bounded cache.
package sitemap

import (
	"context"
	"fmt"
	"time"

	"contentguard/internal/crawler"
	"contentguard/internal/filter"
	"contentguard/internal/models"
	"contentguard/internal/parser"
	"contentguard/internal/retry"
	"contentguard/pkg/logger"
)

// Source fetches one sitemap document.
type Source interface {
	FetchSitemap(ctx context.Context, rawURL string) (*crawler.Response, error)
}

// FetchError describes an endpoint that failed every attempt.
type FetchError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("sitemap %s: %d attempts: %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Warning() models.Warning {
	return models.Warning{Endpoint: e.Endpoint, Attempts: e.Attempts, Error: e.Err.Error()}
}

// Result is one fetch cycle's output.
type Result struct {
	URLs      models.Inventory
	Warnings  []models.Warning
	FetchedAt time.Time
}

type Options struct {
	Endpoints   []string
	Filter      *filter.Filter
	Retry       retry.Policy
	Concurrency int
	Logger      *logger.Logger
}

type Fetcher struct {
	src         Source
	endpoints   []string
	filter      *filter.Filter
	policy      retry.Policy
	concurrency int
	log         *logger.Logger
}

func NewFetcher(src Source, opts Options) *Fetcher {
	f := &Fetcher{
		src:         src,
		endpoints:   append([]string(nil), opts.Endpoints...),
		filter:      opts.Filter,
		policy:      opts.Retry,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
	}
	if f.filter == nil {
		f.filter = filter.Default()
	}
	if f.concurrency < 1 {
		f.concurrency = 1
	}
	if f.log == nil {
		f.log = logger.New()
	}
	return f
}

// Fetch retrieves every endpoint and returns the filtered, deduplicated URLs
// in first-seen order: endpoints in configured order, entries in document order.
// Endpoints that fail all attempts become warnings. The only error returned is
// the context's.
func (f *Fetcher) Fetch(ctx context.Context) (Result, error) {
	n := len(f.endpoints)
	locs := make([][]string, n)
	errs := make([]*FetchError, n)

	// bounded concurrency
	sem := make(chan struct{}, f.concurrency)
	done := make(chan int, n)

	for i, ep := range f.endpoints {
		i, ep := i, ep
		sem <- struct{}{} // acquire
		go func() {
			defer func() { <-sem; done <- i }()
			locs[i], errs[i] = f.fetchOne(ctx, ep)
		}()
	}
	// wait
	for range f.endpoints {
		<-done
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{FetchedAt: time.Now()}
	seen := make(map[string]struct{})
	for i := range f.endpoints {
		if fe := errs[i]; fe != nil {
			w := fe.Warning()
			f.log.Warnf("%s", w)
			res.Warnings = append(res.Warnings, w)
			continue
		}
		for _, u := range locs[i] {
			if !f.filter.Accept(u) {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			res.URLs = append(res.URLs, u)
		}
	}
	f.log.Infof("loaded %d blog urls from %d sitemaps (%d skipped)", len(res.URLs), n-len(res.Warnings), len(res.Warnings))
	return res, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, endpoint string) ([]string, *FetchError) {
	var locs []string
	attempts, err := f.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		got, err := f.attempt(ctx, endpoint)
		if err != nil {
			f.log.Debugf("sitemap %s attempt %d failed: %v", endpoint, attempt, err)
			return err
		}
		locs = got
		return nil
	})
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Attempts: attempts, Err: err}
	}
	return locs, nil
}

func (f *Fetcher) attempt(ctx context.Context, endpoint string) ([]string, error) {
	resp, err := f.src.FetchSitemap(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	locs, err := parser.ParseSitemap(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.FinalURL != endpoint {
		f.log.Debugf("sitemap %s redirected to %s", endpoint, resp.FinalURL)
	}
	f.log.Debugf("sitemap %s: %d entries in %s", endpoint, len(locs), resp.Elapsed.Round(time.Millisecond))
	return locs, nil
}
