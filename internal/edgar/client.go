// Package edgar implements the EDGAR filing-index parsing and item-content
// extraction engine: company search, filing index parsing with date/item
// filters, best-document resolution, and heuristic extraction of per-item
// narrative text from filing documents.
//
// EDGAR serves these pages without credentials but requires a descriptive
// User-Agent and stays under 10 requests/second per agent.
package edgar

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/edgarscope/internal/infra"
	"github.com/seenimoa/edgarscope/pkg/models"
)

const (
	defaultBaseURL   = "https://www.sec.gov"
	browsePath       = "/cgi-bin/browse-edgar"
	defaultUserAgent = "edgarscope/1.0 (github.com/seenimoa/edgarscope)"

	defaultFetchTimeout = 15 * time.Second
	defaultConcurrency  = 4
	defaultRateLimit    = 8 // requests/second, under SEC's 10/s ceiling
)

// Client drives the filing pipeline: it builds the EDGAR browse URLs,
// fetches raw markup, runs the parsers, and resolves per-filing content.
type Client struct {
	baseURL      string
	userAgent    string
	limiter      *infra.RateLimiter
	fetchTimeout time.Duration
	concurrency  int
	feedParser   *gofeed.Parser
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the EDGAR base URL (tests point this at a local server).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithFetchTimeout bounds each upstream fetch. A fetch that exceeds it is
// reported the same way as any other connection failure.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Client) { c.fetchTimeout = d }
}

// WithConcurrency bounds the fan-out of per-filing content fetches.
func WithConcurrency(n int) Option {
	return func(c *Client) { c.concurrency = n }
}

// WithRateLimit sets the requests-per-second ceiling for upstream fetches.
func WithRateLimit(n int) Option {
	return func(c *Client) {
		if n < 1 {
			n = 1
		}
		c.limiter = infra.NewRateLimiter(n, time.Second)
	}
}

// NewClient creates an EDGAR client with conservative defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		userAgent:    defaultUserAgent,
		limiter:      infra.NewRateLimiter(defaultRateLimit, time.Second),
		fetchTimeout: defaultFetchTimeout,
		concurrency:  defaultConcurrency,
		feedParser:   gofeed.NewParser(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	return c
}

// SearchCompanies queries the EDGAR company search and returns CIK/name
// pairs in source order.
func (c *Client) SearchCompanies(ctx context.Context, company string) ([]models.CompanySearchResult, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return nil, &ErrInvalidQuery{Field: "company", Reason: "must not be empty"}
	}

	doc, err := c.fetchDocument(ctx, c.companySearchURL(company))
	if err != nil {
		return nil, fmt.Errorf("company search %q: %w", company, err)
	}
	return ParseCompanySearch(doc), nil
}

// Filings fetches and parses a company's filing index, then resolves each
// surviving record's content reference. Records keep source row order.
func (c *Client) Filings(ctx context.Context, q FilingQuery) (*FilingSet, error) {
	doc, err := c.fetchDocument(ctx, c.filingIndexURL(q))
	if err != nil {
		return nil, fmt.Errorf("filing index CIK %s: %w", q.CIK, err)
	}

	set := ParseFilingIndex(doc, q)
	c.resolveContent(ctx, set.Records)
	return &set, nil
}

// ItemContent fetches a filing document and extracts the narrative
// fragments for the requested item numbers. An empty item set returns the
// whole document as one block.
func (c *Client) ItemContent(ctx context.Context, docURL string, items []string) ([]models.ItemContentBlock, error) {
	docURL = strings.TrimSpace(docURL)
	if docURL == "" {
		return nil, &ErrInvalidQuery{Field: "url", Reason: "must not be empty"}
	}

	doc, err := c.fetchDocument(ctx, c.absoluteURL(docURL))
	if err != nil {
		return nil, fmt.Errorf("filing document %s: %w", docURL, err)
	}
	return ExtractItemContent(doc, items), nil
}

// RecentFilingsFeed returns the entries of a company's EDGAR Atom feed,
// newest first as EDGAR serves them.
func (c *Client) RecentFilingsFeed(ctx context.Context, cik, filingType string) ([]models.FilingFeedEntry, error) {
	cik = strings.TrimSpace(cik)
	if cik == "" {
		return nil, &ErrInvalidQuery{Field: "cik", Reason: "must not be empty"}
	}

	feed, err := c.fetchFeed(ctx, c.filingFeedURL(cik, filingType))
	if err != nil {
		return nil, fmt.Errorf("filing feed CIK %s: %w", cik, err)
	}

	entries := make([]models.FilingFeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		e := models.FilingFeedEntry{
			Title:     item.Title,
			FilingURL: item.Link,
			Summary:   item.Description,
		}
		if item.UpdatedParsed != nil {
			e.Updated = *item.UpdatedParsed
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Ping checks connectivity to the EDGAR browse endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.fetchDocument(ctx, c.baseURL+browsePath+"?action=getcompany&CIK=0000320193&type=10-K&dateb=&owner=exclude&count=1")
	if err != nil {
		return fmt.Errorf("edgar ping: %w", err)
	}
	return nil
}

// --- content resolution ---

// resolveContent fills Content for every record. Fetches fan out with
// bounded concurrency; each goroutine writes only its own index, so the
// output keeps the parser's row order.
func (c *Client) resolveContent(ctx context.Context, records []models.FilingRecord) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i := range records {
		i := i
		g.Go(func() error {
			rec := &records[i]
			rec.Content = c.resolveOne(gctx, rec.DocumentIndexURL, rec.FilingType)
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures become sentinels
}

// resolveOne fetches one document index page and applies the resolution
// policy. Any transport failure, including a timeout, collapses to the
// connection-error sentinel for that record only.
func (c *Client) resolveOne(ctx context.Context, indexURL, desiredType string) string {
	doc, err := c.fetchDocument(ctx, c.absoluteURL(indexURL))
	if err != nil {
		return models.ContentConnectionError
	}

	ref := ResolveDocument(doc, desiredType)
	if ref == models.ContentNotFound {
		return ref
	}
	return c.absoluteURL(ref)
}

// --- URL builders ---

func (c *Client) companySearchURL(company string) string {
	v := url.Values{}
	v.Set("company", company)
	v.Set("owner", "exclude")
	v.Set("action", "getcompany")
	return c.baseURL + browsePath + "?" + v.Encode()
}

func (c *Client) filingIndexURL(q FilingQuery) string {
	dateb := ""
	if !q.Before.IsZero() {
		dateb = q.Before.Format("20060102")
	}
	v := url.Values{}
	v.Set("action", "getcompany")
	v.Set("CIK", q.CIK)
	v.Set("type", q.FilingType)
	v.Set("dateb", dateb)
	v.Set("owner", "exclude")
	v.Set("count", "40")
	return c.baseURL + browsePath + "?" + v.Encode()
}

func (c *Client) filingFeedURL(cik, filingType string) string {
	v := url.Values{}
	v.Set("action", "getcompany")
	v.Set("CIK", cik)
	v.Set("type", filingType)
	v.Set("owner", "exclude")
	v.Set("count", "40")
	v.Set("output", "atom")
	return c.baseURL + browsePath + "?" + v.Encode()
}

// absoluteURL resolves the site-relative hrefs EDGAR pages carry.
func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return c.baseURL + href
}

// --- transport ---

// fetchDocument fetches a page and parses it into a goquery document. The
// whole round trip, body read included, runs under the per-fetch timeout.
func (c *Client) fetchDocument(ctx context.Context, u string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	body, _, err := infra.DoGet(fctx, u, c.headers())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse markup from %s: %w", u, err)
	}
	return doc, nil
}

// fetchFeed fetches and parses an Atom/RSS feed under the same transport
// discipline as fetchDocument.
func (c *Client) fetchFeed(ctx context.Context, u string) (*gofeed.Feed, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	body, _, err := infra.DoGet(fctx, u, c.headers())
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return c.feedParser.Parse(body)
}

func (c *Client) headers() map[string]string {
	return map[string]string{"User-Agent": c.userAgent}
}
