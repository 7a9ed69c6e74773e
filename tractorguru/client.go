// Package tractorguru is a scraping client for the public TractorGuru site.
//
// The site has no API, so brand lists, model listings and model spec pages
// are recovered from HTML with heuristic selectors (see package extract).
// Fetched pages and extracted results are cached in memory for a day.
package tractorguru

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/use-agent/tractorguru/cache"
	"github.com/use-agent/tractorguru/config"
	"github.com/use-agent/tractorguru/engine"
	"github.com/use-agent/tractorguru/extract"
	"github.com/use-agent/tractorguru/models"
	"golang.org/x/time/rate"
)

// Defaults mirror the public site and its tolerance for scraping.
const (
	DefaultBaseURL  = "https://tractorguru.in"
	DefaultTimeout  = 15 * time.Second
	DefaultCacheTTL = 24 * time.Hour
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL string

	// Engine overrides the transport. When nil, one is built from
	// EngineName and EngineOptions.
	Engine        engine.Engine
	EngineName    string
	EngineOptions engine.Options

	// Timeout is applied to every network fetch.
	Timeout time.Duration

	// Extractor overrides the selector heuristics.
	Extractor extract.Extractor

	CacheTTL        time.Duration
	PageCacheSize   int
	BrandCacheSize  int
	ModelCacheSize  int
	DetailCacheSize int

	// RequestsPerSecond > 0 spaces out network fetches.
	RequestsPerSecond float64
	Burst             int

	// Now is the cache clock; tests use it to step past the TTL.
	Now func() time.Time

	Logger *slog.Logger
}

// Client fetches and extracts TractorGuru pages. It is safe for concurrent
// use; each Client owns its caches.
type Client struct {
	base      string
	host      string
	engine    engine.Engine
	extractor extract.Extractor
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    *slog.Logger

	pageCache   *cache.Cache[page]
	brandCache  *cache.Cache[[]models.Brand]
	modelCache  *cache.Cache[[]models.Model]
	detailCache *cache.Cache[*models.ModelDetail]
}

// New creates a Client. Any failure is an *InitializationError.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, &InitializationError{Err: fmt.Errorf("parse base URL: %w", err)}
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, &InitializationError{Err: fmt.Errorf("base URL %q must be an absolute http(s) URL", opts.BaseURL)}
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}

	eng := opts.Engine
	if eng == nil {
		engOpts := opts.EngineOptions
		if engOpts.Timeout <= 0 {
			engOpts.Timeout = opts.Timeout
		}
		eng, err = engine.New(opts.EngineName, engOpts)
		if err != nil {
			return nil, &InitializationError{Err: err}
		}
	}

	ext := opts.Extractor
	if ext == nil {
		ext = extract.NewHeuristic()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		base:        strings.TrimRight(opts.BaseURL, "/"),
		host:        base.Hostname(),
		engine:      eng,
		extractor:   ext,
		timeout:     opts.Timeout,
		logger:      logger.With("component", "tractorguru"),
		pageCache:   cache.New[page](opts.CacheTTL, sizeOr(opts.PageCacheSize, 128)),
		brandCache:  cache.New[[]models.Brand](opts.CacheTTL, sizeOr(opts.BrandCacheSize, 1)),
		modelCache:  cache.New[[]models.Model](opts.CacheTTL, sizeOr(opts.ModelCacheSize, 128)),
		detailCache: cache.New[*models.ModelDetail](opts.CacheTTL, sizeOr(opts.DetailCacheSize, 256)),
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	if opts.Now != nil {
		c.pageCache.SetClock(opts.Now)
		c.brandCache.SetClock(opts.Now)
		c.modelCache.SetClock(opts.Now)
		c.detailCache.SetClock(opts.Now)
	}
	return c, nil
}

// NewFromConfig creates a Client from the application configuration.
func NewFromConfig(up config.UpstreamConfig, cc config.CacheConfig) (*Client, error) {
	return New(Options{
		BaseURL:    up.BaseURL,
		EngineName: up.Engine,
		EngineOptions: engine.Options{
			UserAgent:      up.UserAgent,
			AcceptLanguage: up.AcceptLanguage,
			Proxy:          up.Proxy,
			Timeout:        up.Timeout,
		},
		Timeout:           up.Timeout,
		CacheTTL:          cc.TTL,
		PageCacheSize:     cc.PageEntries,
		BrandCacheSize:    cc.BrandEntries,
		ModelCacheSize:    cc.ModelEntries,
		DetailCacheSize:   cc.DetailEntries,
		RequestsPerSecond: up.RequestsPerSecond,
		Burst:             up.Burst,
	})
}

// BaseURL returns the site origin paths are resolved against.
func (c *Client) BaseURL() string { return c.base }

// EngineName reports which transport the client fetches with.
func (c *Client) EngineName() string { return c.engine.Name() }

// Stats returns a snapshot of live cache entries.
func (c *Client) Stats() models.CacheStats {
	return models.CacheStats{
		Pages:   c.pageCache.Len(),
		Brands:  c.brandCache.Len(),
		Models:  c.modelCache.Len(),
		Details: c.detailCache.Len(),
	}
}

// page is fetched markup plus the URL it was finally served from, which
// differs from the requested URL after a redirect.
type page struct {
	markup string
	url    string
}

// fetch returns the page at pathOrURL, from the page cache when fresh.
// Failures are *FetchError and are never retried.
func (c *Client) fetch(ctx context.Context, pathOrURL string) (page, error) {
	target := c.resolve(pathOrURL)
	if p, ok := c.pageCache.Get(target); ok {
		c.logger.Debug("page cache hit", "url", target)
		return p, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return page{}, &FetchError{URL: target, Err: err}
		}
	}

	start := time.Now()
	res, err := c.engine.Fetch(ctx, &engine.FetchRequest{URL: target, Timeout: c.timeout})
	if err != nil {
		return page{}, newFetchError(target, err)
	}

	p := page{markup: res.HTML, url: target}
	if res.FinalURL != "" {
		p.url = res.FinalURL
	}
	c.logger.Debug("page fetched",
		"url", target,
		"final_url", p.url,
		"status", res.StatusCode,
		"bytes", len(res.HTML),
		"engine", res.EngineName,
		"elapsed", time.Since(start),
	)

	c.pageCache.Set(target, p)
	return p, nil
}

func sizeOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}
