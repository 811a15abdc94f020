package models

import "time"

// --- Filing index ---

// FilingRecord is one row of a company's filing history on EDGAR.
// Records are built once per index row during a parse pass and are not
// mutated afterwards; they live only for the duration of one query.
type FilingRecord struct {
	FilingType       string    `json:"filing_type"` // "8-K", "10-K", ... (uppercased)
	FilingDate       time.Time `json:"filing_date"`
	ItemNumbers      []string  `json:"item_numbers"` // source order, duplicates preserved
	DocumentIndexURL string    `json:"document_index_url"`

	// Content is resolved lazily from the document index page: either a URL
	// to the formatted document, a URL to the raw .txt submission, or one of
	// the sentinel values ContentNotFound / ContentConnectionError.
	Content string `json:"content,omitempty"`
}

// Content sentinels, mirroring what EDGAR-facing callers have historically
// displayed verbatim.
const (
	ContentNotFound        = "No content found."
	ContentConnectionError = "Connection error."
)

// --- Company search ---

// CompanySearchResult is one row of an EDGAR company-search results table.
// CIK is trimmed; CompanyName keeps the source whitespace untouched.
type CompanySearchResult struct {
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name"`
}

// --- Item content ---

// ItemContentBlock is the narrative fragment extracted for a single
// disclosure item number. Fragment carries HTML.
type ItemContentBlock struct {
	ItemNumber string `json:"item_number"`
	Fragment   string `json:"fragment"`
}

// --- Filing feed ---

// FilingFeedEntry is one entry of a company's EDGAR Atom feed.
type FilingFeedEntry struct {
	Title     string    `json:"title"`
	FilingURL string    `json:"filing_url"`
	Updated   time.Time `json:"updated"`
	Summary   string    `json:"summary,omitempty"`
}
