// Package edgar implements the SEC EDGAR data provider. It wraps the
// filing engine's client and exposes company search, filing indexes,
// item content extraction, and the recent-filings feed through the
// provider registry.
//
// No API key required. Must include a User-Agent header per SEC policy.
// Rate limit: 10 requests/second per user-agent.
package edgar

import (
	"context"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

const providerName = "edgar"

// defaultFetcherRate is the per-fetcher requests-per-second ceiling when
// no configured rate is supplied.
const defaultFetcherRate = 8

// Settings tunes fetcher caching and rate limiting. Zero values fall back
// to per-model defaults.
type Settings struct {
	CacheTTL  time.Duration // TTL for cached fetch results
	RateLimit int           // requests per second
}

func (s Settings) ttl(def time.Duration) time.Duration {
	if s.CacheTTL > 0 {
		return s.CacheTTL
	}
	return def
}

func (s Settings) rate() int {
	if s.RateLimit > 0 {
		return s.RateLimit
	}
	return defaultFetcherRate
}

// Provider implements provider.Provider for SEC EDGAR. All fetchers share
// one engine client so the rate limit applies across models.
type Provider struct {
	provider.BaseProvider
	client *engine.Client
}

// New creates the EDGAR provider with default settings. Options pass
// through to the engine client (tests point the base URL at a stub).
func New(opts ...engine.Option) *Provider {
	return NewWithSettings(Settings{}, opts...)
}

// NewWithSettings creates the EDGAR provider with configured cache and
// rate-limit settings and registers its fetchers.
func NewWithSettings(s Settings, opts ...engine.Option) *Provider {
	p := &Provider{
		BaseProvider: provider.NewBaseProvider(
			providerName,
			"SEC EDGAR - US securities filing indexes and item content",
			"https://www.sec.gov/edgar",
		),
		client: engine.NewClient(opts...),
	}

	p.RegisterFetcher(newCompanySearchFetcher(p.client, s))
	p.RegisterFetcher(newFilingIndexFetcher(p.client, s))
	p.RegisterFetcher(newItemContentFetcher(p.client, s))
	p.RegisterFetcher(newFilingFeedFetcher(p.client, s))

	return p
}

// Ping checks connectivity to the EDGAR browse endpoint.
func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func newResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
	}
}

func newCachedResult(data any) *provider.FetchResult {
	return &provider.FetchResult{
		Data:      data,
		FetchedAt: time.Now(),
		Cached:    true,
	}
}
