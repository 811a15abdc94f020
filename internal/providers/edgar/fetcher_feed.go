package edgar

import (
	"context"
	"fmt"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

// ---- FilingFeed fetcher ----
// Returns entries from a company's EDGAR Atom feed, newest first.

type filingFeedFetcher struct {
	provider.BaseFetcher
	client *engine.Client
}

func newFilingFeedFetcher(client *engine.Client, s Settings) *filingFeedFetcher {
	return &filingFeedFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelFilingFeed,
			"Recent filings from the company's EDGAR Atom feed",
			[]string{provider.ParamCIK},
			[]string{provider.ParamFilingType},
			s.ttl(2*time.Minute), s.rate(), time.Second,
		),
		client: client,
	}
}

func (f *filingFeedFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	entries, err := f.client.RecentFilingsFeed(ctx, params[provider.ParamCIK], params[provider.ParamFilingType])
	if err != nil {
		return nil, fmt.Errorf("edgar filing feed: %w", err)
	}

	f.CacheSet(cacheKey, entries)
	return newResult(entries), nil
}
