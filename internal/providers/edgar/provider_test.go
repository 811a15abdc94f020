package edgar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	engine "github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/internal/provider"
	"github.com/seenimoa/edgarscope/pkg/models"
)

func stubServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cgi-bin/browse-edgar", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("output") == "atom":
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>filings</title>
<entry>
 <title>8-K - Current report</title>
 <link rel="alternate" href="https://www.sec.gov/Archives/x-index.htm"/>
 <updated>2020-02-01T08:00:00-05:00</updated>
 <summary>Item 5.02</summary>
 <id>urn:x</id>
</entry>
</feed>`)
		case q.Get("company") != "":
			fmt.Fprint(w, `<table class="tableFile2">
<tr><th>CIK</th><th>Company</th></tr>
<tr><td>0000320193</td><td>Apple Inc.</td></tr>
</table>`)
		default:
			fmt.Fprint(w, `<table class="tableFile2">
<tr><th>Filings</th><th>Format</th><th>Description</th><th>Date</th></tr>
<tr>
 <td>8-K</td>
 <td><a id="documentsbutton" href="/docs/1">Documents</a></td>
 <td>Current report filing Item 5.02]</td>
 <td>2020-02-01</td>
</tr>
</table>`)
		}
	})
	mux.HandleFunc("/docs/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table class="tableFile">
<tr><td>1</td><td>MAIN</td><td><a href="/a/form8k.htm">form8k.htm</a></td><td>8-K</td><td>1</td></tr>
</table>`)
	})
	mux.HandleFunc("/a/form8k.htm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<div>Item 5.02 Departure of Directors.</div>
<div>The CFO resigned.</div>
<div>SIGNATURE</div>
</body></html>`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func stubProvider(t *testing.T) *Provider {
	return New(engine.WithBaseURL(stubServer(t).URL))
}

func TestProviderInfo(t *testing.T) {
	p := New()

	info := p.Info()
	if info.Name != "edgar" {
		t.Errorf("Name = %q", info.Name)
	}
	if len(info.Models) != 4 {
		t.Errorf("got %d models, want 4", len(info.Models))
	}
	for _, m := range provider.AllModels() {
		if p.Fetcher(m) == nil {
			t.Errorf("no fetcher for model %s", m)
		}
	}
}

func TestCompanySearchFetcher(t *testing.T) {
	p := stubProvider(t)
	f := p.Fetcher(provider.ModelCompanySearch)

	res, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamCompany: "apple",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	results, ok := res.Data.([]models.CompanySearchResult)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if len(results) != 1 || results[0].CIK != "0000320193" {
		t.Errorf("results = %+v", results)
	}

	// Second fetch hits the cache.
	res, err = f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamCompany: "apple",
	})
	if err != nil {
		t.Fatalf("cached Fetch: %v", err)
	}
	if !res.Cached {
		t.Error("expected cached result on repeat fetch")
	}
}

func TestFilingIndexFetcher(t *testing.T) {
	p := stubProvider(t)
	f := p.Fetcher(provider.ModelFilingIndex)

	res, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamCIK:        "0000320193",
		provider.ParamFilingType: "8-K",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	set, ok := res.Data.(*engine.FilingSet)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if len(set.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(set.Records))
	}
	if set.Records[0].Content == models.ContentNotFound || set.Records[0].Content == "" {
		t.Errorf("Content = %q, want resolved link", set.Records[0].Content)
	}
}

func TestFilingIndexFetcherInvalidQuery(t *testing.T) {
	p := stubProvider(t)
	f := p.Fetcher(provider.ModelFilingIndex)

	_, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamCIK:   "0000320193",
		provider.ParamAfter: "02/2020",
	})
	if err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestItemContentFetcher(t *testing.T) {
	p := stubProvider(t)
	f := p.Fetcher(provider.ModelItemContent)

	res, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamURL:   "/a/form8k.htm",
		provider.ParamItems: "5.02, 9.01",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	blocks, ok := res.Data.([]models.ItemContentBlock)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if len(blocks) != 1 || blocks[0].ItemNumber != "5.02" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestFilingFeedFetcher(t *testing.T) {
	p := stubProvider(t)
	f := p.Fetcher(provider.ModelFilingFeed)

	res, err := f.Fetch(context.Background(), provider.QueryParams{
		provider.ParamCIK: "0000320193",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	entries, ok := res.Data.([]models.FilingFeedEntry)
	if !ok {
		t.Fatalf("Data type = %T", res.Data)
	}
	if len(entries) != 1 || entries[0].Summary != "Item 5.02" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestProviderThroughRegistry(t *testing.T) {
	reg := provider.NewRegistry()
	if err := reg.Register(stubProvider(t)); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := reg.Fetch(context.Background(), provider.ModelCompanySearch, provider.QueryParams{
		provider.ParamCompany: "apple",
	})
	if err != nil {
		t.Fatalf("registry Fetch: %v", err)
	}
	if res.Provider != "edgar" {
		t.Errorf("Provider = %q", res.Provider)
	}

	// Missing required param rejected before any fetch.
	if _, err := reg.Fetch(context.Background(), provider.ModelCompanySearch, provider.QueryParams{}); err == nil {
		t.Error("expected missing-param error")
	}
}

func TestSettingsFallbacks(t *testing.T) {
	var zero Settings
	if got := zero.ttl(5 * time.Minute); got != 5*time.Minute {
		t.Errorf("zero ttl = %v, want model default", got)
	}
	if got := zero.rate(); got != defaultFetcherRate {
		t.Errorf("zero rate = %d, want %d", got, defaultFetcherRate)
	}

	s := Settings{CacheTTL: time.Hour, RateLimit: 3}
	if got := s.ttl(5 * time.Minute); got != time.Hour {
		t.Errorf("ttl = %v, want configured 1h", got)
	}
	if got := s.rate(); got != 3 {
		t.Errorf("rate = %d, want configured 3", got)
	}
}

func TestSettingsCacheTTLWired(t *testing.T) {
	// A nanosecond TTL expires before the repeat fetch, so the second
	// result must come from upstream, not the cache.
	p := NewWithSettings(Settings{CacheTTL: time.Nanosecond},
		engine.WithBaseURL(stubServer(t).URL))
	f := p.Fetcher(provider.ModelCompanySearch)

	params := provider.QueryParams{provider.ParamCompany: "apple"}
	if _, err := f.Fetch(context.Background(), params); err != nil {
		t.Fatalf("first Fetch: %v", err)
	}
	time.Sleep(time.Millisecond)

	res, err := f.Fetch(context.Background(), params)
	if err != nil {
		t.Fatalf("second Fetch: %v", err)
	}
	if res.Cached {
		t.Error("configured TTL ignored: expired entry served from cache")
	}
}

func TestSplitItems(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"5.02", 1},
		{"5.02, 9.01", 2},
		{"5.02,,9.01,", 2},
	}
	for _, tt := range tests {
		if got := splitItems(tt.in); len(got) != tt.want {
			t.Errorf("splitItems(%q) = %v, want %d items", tt.in, got, tt.want)
		}
	}
}
