// Package audit runs keyword audits against the cached blog inventory.
package audit

import (
	"context"
	"errors"
	"strings"
	"time"

	"contentguard/internal/classifier"
	"contentguard/internal/config"
	"contentguard/internal/crawler"
	"contentguard/internal/filter"
	"contentguard/internal/models"
	"contentguard/internal/parser"
	"contentguard/internal/retry"
	"contentguard/internal/sitemap"
	"contentguard/pkg/logger"
)

// ErrNoKeywords is returned when nothing is left after normalizing the input.
var ErrNoKeywords = errors.New("no keywords supplied")

// InventorySource builds a fresh inventory.
type InventorySource interface {
	Fetch(ctx context.Context) (sitemap.Result, error)
}

// PageSource fetches published post pages for title enrichment.
type PageSource interface {
	FetchPage(ctx context.Context, rawURL string) (*crawler.Response, error)
}

type Options struct {
	Inventory  InventorySource
	Cache      *sitemap.Cache
	Classifier *classifier.Classifier
	// Pages enables live title lookup for matched URLs when set.
	Pages    PageSource
	Logger   *logger.Logger
	Progress func(done, total int)
}

type Service struct {
	inv      InventorySource
	cache    *sitemap.Cache
	cl       *classifier.Classifier
	pages    PageSource
	log      *logger.Logger
	progress func(done, total int)
}

func New(opts Options) *Service {
	s := &Service{
		inv:      opts.Inventory,
		cache:    opts.Cache,
		cl:       opts.Classifier,
		pages:    opts.Pages,
		log:      opts.Logger,
		progress: opts.Progress,
	}
	if s.cache == nil {
		s.cache = sitemap.NewCache(24 * time.Hour)
	}
	if s.cl == nil {
		s.cl = classifier.New(classifier.DefaultThreshold)
	}
	if s.log == nil {
		s.log = logger.New()
	}
	return s
}

// NewFromConfig wires the HTTP client, sitemap fetcher, cache and classifier.
func NewFromConfig(cfg *config.Config, l *logger.Logger) *Service {
	client := crawler.NewHTTPClient(cfg.RequestTimeout, 5*time.Second, cfg.MaxBodyBytes, cfg.UserAgent)
	fetcher := sitemap.NewFetcher(client, sitemap.Options{
		Endpoints:   cfg.Sitemaps,
		Filter:      filter.New(cfg.FilterInclude, cfg.FilterExclude),
		Retry:       retry.Policy{Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff},
		Concurrency: cfg.FetchConcurrency,
		Logger:      l,
	})
	opts := Options{
		Inventory:  fetcher,
		Cache:      sitemap.NewCache(cfg.CacheTTL),
		Classifier: classifier.New(cfg.SimilarityThreshold),
		Logger:     l,
	}
	if cfg.EnrichTitles {
		opts.Pages = client
	}
	return New(opts)
}

// NormalizeKeywords trims and lower-cases each entry and drops empty ones.
func NormalizeKeywords(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ParseKeywordList splits comma separated keyword input.
func ParseKeywordList(raw string) []string {
	return NormalizeKeywords(strings.Split(raw, ","))
}

// RunAudit classifies keywords, in order, against the current inventory.
// The inventory comes from the cache when fresh and is fetched otherwise.
func (s *Service) RunAudit(ctx context.Context, keywords []string) (models.Report, error) {
	kws := NormalizeKeywords(keywords)
	if len(kws) == 0 {
		return models.Report{}, ErrNoKeywords
	}

	res, hit, err := s.Inventory(ctx)
	if err != nil {
		return models.Report{}, err
	}
	s.log.Infof("auditing %d keywords against %d blog urls (cached=%t)", len(kws), len(res.URLs), hit)

	records := s.cl.ClassifyAll(kws, res.URLs, s.progress)
	if s.pages != nil {
		s.enrichTitles(ctx, records)
	}

	return models.Report{
		Records:       records,
		Warnings:      res.Warnings,
		InventorySize: len(res.URLs),
		FromCache:     hit,
		FetchedAt:     res.FetchedAt,
	}, nil
}

// Inventory returns the cached inventory, fetching it on a miss.
func (s *Service) Inventory(ctx context.Context) (sitemap.Result, bool, error) {
	return s.cache.Get(ctx, s.inv.Fetch)
}

// InvalidateCache forces the next audit to fetch the sitemaps again.
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
	s.log.Infof("inventory cache cleared")
}

func (s *Service) enrichTitles(ctx context.Context, records []models.ClassificationRecord) {
	titles := map[string]*string{}
	for i := range records {
		u := records[i].MatchedURL
		if u == nil {
			continue
		}
		t, ok := titles[*u]
		if !ok {
			t = s.pageTitle(ctx, *u)
			titles[*u] = t
		}
		records[i].PageTitle = t
	}
}

func (s *Service) pageTitle(ctx context.Context, u string) *string {
	resp, err := s.pages.FetchPage(ctx, u)
	if err != nil {
		s.log.Warnf("title lookup %s: %v", u, err)
		return nil
	}
	defer resp.Body.Close()
	title, err := parser.PageTitle(resp.Body, resp.ContentType)
	if err != nil || title == "" {
		s.log.Debugf("title lookup %s: no title (%v)", u, err)
		return nil
	}
	return &title
}
