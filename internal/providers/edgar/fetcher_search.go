package edgar

import (
	"context"
	"fmt"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

// ---- CompanySearch fetcher ----
// Searches the EDGAR company database by name fragment.

type companySearchFetcher struct {
	provider.BaseFetcher
	client *engine.Client
}

func newCompanySearchFetcher(client *engine.Client, s Settings) *companySearchFetcher {
	return &companySearchFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCompanySearch,
			"Search SEC EDGAR for companies by name",
			[]string{provider.ParamCompany},
			nil,
			s.ttl(30*time.Minute), s.rate(), time.Second,
		),
		client: client,
	}
}

func (f *companySearchFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	results, err := f.client.SearchCompanies(ctx, params[provider.ParamCompany])
	if err != nil {
		return nil, fmt.Errorf("edgar company search: %w", err)
	}

	f.CacheSet(cacheKey, results)
	return newResult(results), nil
}
