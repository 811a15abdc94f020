package edgar

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/edgarscope/internal/markup"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// Column contract with the EDGAR browse page. The filing index table is
// [filingType, documentsLinkCell, description, filingDate, ...] with the
// documents link identified by a fixed element id inside column 1.
const (
	colFilingType  = 0
	colDocuments   = 1
	colDescription = 2
	colFilingDate  = 3

	filingIndexTableClass = "tableFile2"
	documentsLinkID       = "documentsbutton"
)

// filingDateLayouts are the date renderings observed on the browse page.
var filingDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

// FilingSet is the outcome of one filing index parse: the surviving records
// in source row order, plus the rows dropped by row-level parse failures.
// A dropped row never fails the query; it is reported for observability.
type FilingSet struct {
	Records []models.FilingRecord `json:"records"`
	Dropped []DroppedRow          `json:"dropped,omitempty"`
}

// DroppedRow identifies a source row that could not be parsed.
type DroppedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseFilingIndex parses a filing-list table into FilingRecord entries,
// applying the query's date and item filters. Filters are stable: surviving
// records keep source row order. Content is not resolved here; the client
// fills it from each record's document index page.
func ParseFilingIndex(doc *goquery.Document, q FilingQuery) FilingSet {
	var set FilingSet
	table, ok := markup.FindTable(doc, filingIndexTableClass)
	if !ok {
		return set
	}

	for i, row := range table.Rows() {
		cells := row.Cells()
		if len(cells) == 0 {
			continue // header or separator row
		}
		if len(cells) <= colFilingDate {
			set.drop(i, "too few columns")
			continue
		}

		docURL, ok := cells[colDocuments].LinkByID(documentsLinkID)
		if !ok {
			set.drop(i, "missing documents link")
			continue
		}

		dateText := cells[colFilingDate].TrimmedText()
		filingDate, err := parseFilingDate(dateText)
		if err != nil {
			set.drop(i, fmt.Sprintf("unparseable date %q", dateText))
			continue
		}

		if !q.After.IsZero() && filingDate.Before(q.After) {
			continue
		}

		items := ParseItemReferences(cells[colDescription].Text())
		if q.Item != "" && !containsItem(items, q.Item) {
			continue
		}

		set.Records = append(set.Records, models.FilingRecord{
			FilingType:       strings.ToUpper(cells[colFilingType].TrimmedText()),
			FilingDate:       filingDate,
			ItemNumbers:      items,
			DocumentIndexURL: docURL,
		})
	}
	return set
}

func (s *FilingSet) drop(row int, reason string) {
	s.Dropped = append(s.Dropped, DroppedRow{Row: row, Reason: reason})
}

func parseFilingDate(s string) (time.Time, error) {
	for _, layout := range filingDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

func containsItem(items []string, item string) bool {
	for _, n := range items {
		if n == item {
			return true
		}
	}
	return false
}
