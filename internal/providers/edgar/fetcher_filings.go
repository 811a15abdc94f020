package edgar

import (
	"context"
	"fmt"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

// ---- FilingIndex fetcher ----
// Fetches a company's filing index and resolves per-filing content links.

type filingIndexFetcher struct {
	provider.BaseFetcher
	client *engine.Client
}

func newFilingIndexFetcher(client *engine.Client, s Settings) *filingIndexFetcher {
	return &filingIndexFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelFilingIndex,
			"Company filing index with resolved document links",
			[]string{provider.ParamCIK},
			[]string{provider.ParamFilingType, provider.ParamAfter, provider.ParamBefore, provider.ParamItem},
			s.ttl(5*time.Minute), s.rate(), time.Second,
		),
		client: client,
	}
}

func (f *filingIndexFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	q, err := engine.ParseFilingQuery(
		params[provider.ParamCIK],
		params[provider.ParamFilingType],
		params[provider.ParamAfter],
		params[provider.ParamBefore],
		params[provider.ParamItem],
	)
	if err != nil {
		return nil, err
	}

	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	set, err := f.client.Filings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("edgar filing index: %w", err)
	}

	f.CacheSet(cacheKey, set)
	return newResult(set), nil
}
