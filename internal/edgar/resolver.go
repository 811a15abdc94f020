package edgar

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/edgarscope/internal/markup"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// Document index page contract: table class tableFile, rendering type in
// column 3 (0-indexed), document link elsewhere in the same row.
const (
	documentIndexTableClass = "tableFile"
	colDocumentType         = 3
)

// ResolveDocument selects the best available document reference from a
// filing's document index page. The first row whose type column exactly
// equals desiredType wins; failing that, the first link whose visible text
// contains ".txt" is taken as the raw full-text submission. Returned hrefs
// are as they appear in the markup (usually site-relative).
func ResolveDocument(doc *goquery.Document, desiredType string) string {
	table, ok := markup.FindTable(doc, documentIndexTableClass)
	if !ok {
		return models.ContentNotFound
	}

	// Formatted document matching the desired rendering type. Only the
	// first matching row is considered; a match without an anchor falls
	// through to the raw full-text fallback, never to a later match.
	for _, row := range table.Rows() {
		cells := row.Cells()
		if len(cells) <= colDocumentType {
			continue
		}
		if cells[colDocumentType].TrimmedText() != desiredType {
			continue
		}
		if link, ok := row.FirstLink(); ok && link.Href != "" {
			return link.Href
		}
		break
	}

	// Raw full-text fallback.
	for _, link := range table.Links() {
		if strings.Contains(link.Text, ".txt") && link.Href != "" {
			return link.Href
		}
	}

	return models.ContentNotFound
}
