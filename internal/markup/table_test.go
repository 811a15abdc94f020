package markup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse test markup: %v", err)
	}
	return doc
}

const tablePage = `<html><body>
<table class="other"><tr><td>wrong table</td></tr></table>
<table class="tableFile2">
<tr><th>Type</th><th>Link</th></tr>
<tr>
 <td> 8-K </td>
 <td><a id="documentsbutton" href="/docs/1">Documents</a> <a href="/other">Other</a></td>
</tr>
</table>
</body></html>`

func TestFindTable(t *testing.T) {
	doc := mustDoc(t, tablePage)

	table, ok := FindTable(doc, "tableFile2")
	if !ok {
		t.Fatal("table not found")
	}

	rows := table.Rows()
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Header row has th cells only.
	if cells := rows[0].Cells(); len(cells) != 0 {
		t.Errorf("header row has %d data cells, want 0", len(cells))
	}

	cells := rows[1].Cells()
	if len(cells) != 2 {
		t.Fatalf("got %d cells, want 2", len(cells))
	}
	if cells[0].Text() != " 8-K " {
		t.Errorf("Text = %q, want source whitespace kept", cells[0].Text())
	}
	if cells[0].TrimmedText() != "8-K" {
		t.Errorf("TrimmedText = %q", cells[0].TrimmedText())
	}
}

func TestFindTableAbsent(t *testing.T) {
	doc := mustDoc(t, `<html><body><table class="other"></table></body></html>`)
	if _, ok := FindTable(doc, "tableFile2"); ok {
		t.Error("found a table that is not there")
	}
}

func TestCellLinkByID(t *testing.T) {
	doc := mustDoc(t, tablePage)
	table, _ := FindTable(doc, "tableFile2")
	cells := table.Rows()[1].Cells()

	href, ok := cells[1].LinkByID("documentsbutton")
	if !ok || href != "/docs/1" {
		t.Errorf("LinkByID = %q, %v", href, ok)
	}
	if _, ok := cells[0].LinkByID("documentsbutton"); ok {
		t.Error("LinkByID matched in a cell without the anchor")
	}
}

func TestTableLinksAndFirstLink(t *testing.T) {
	doc := mustDoc(t, tablePage)
	table, _ := FindTable(doc, "tableFile2")

	links := table.Links()
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2", len(links))
	}
	if links[0].Href != "/docs/1" || links[1].Href != "/other" {
		t.Errorf("links = %+v", links)
	}

	link, ok := table.Rows()[1].FirstLink()
	if !ok || link.Href != "/docs/1" {
		t.Errorf("FirstLink = %+v, %v", link, ok)
	}
}
