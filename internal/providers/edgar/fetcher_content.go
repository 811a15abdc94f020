package edgar

import (
	"context"
	"fmt"
	"strings"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
)

// ---- ItemContent fetcher ----
// Extracts per-item narrative fragments from a filing document.

type itemContentFetcher struct {
	provider.BaseFetcher
	client *engine.Client
}

func newItemContentFetcher(client *engine.Client, s Settings) *itemContentFetcher {
	return &itemContentFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelItemContent,
			"Item narrative fragments extracted from a filing document",
			[]string{provider.ParamURL},
			[]string{provider.ParamItems},
			s.ttl(15*time.Minute), s.rate(), time.Second,
		),
		client: client,
	}
}

func (f *itemContentFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(f.ModelType(), params)
	if cached, ok := f.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := f.RateLimit(ctx); err != nil {
		return nil, err
	}

	blocks, err := f.client.ItemContent(ctx, params[provider.ParamURL], splitItems(params[provider.ParamItems]))
	if err != nil {
		return nil, fmt.Errorf("edgar item content: %w", err)
	}

	f.CacheSet(cacheKey, blocks)
	return newResult(blocks), nil
}

// splitItems parses the comma-separated item list: "5.02, 9.01" → two numbers.
func splitItems(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
