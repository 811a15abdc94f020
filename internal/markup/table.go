// Package markup wraps goquery with the two views the parsers need:
// class-marked tables decomposed into rows of cells, and a flat,
// order-preserving sequence of typed nodes for boundary scanning.
// Parsing logic above this package never touches the DOM API directly.
package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is a table element identified by its class marker.
type Table struct {
	sel *goquery.Selection
}

// FindTable locates the first table carrying the given class in the document.
func FindTable(doc *goquery.Document, class string) (*Table, bool) {
	sel := doc.Find("table." + class).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &Table{sel: sel}, true
}

// Rows returns every table row in source order, including header rows.
func (t *Table) Rows() []Row {
	var rows []Row
	t.sel.Find("tr").Each(func(_ int, s *goquery.Selection) {
		rows = append(rows, Row{sel: s})
	})
	return rows
}

// Links returns every anchor inside the table in document order.
func (t *Table) Links() []Link {
	var links []Link
	t.sel.Find("a").Each(func(_ int, s *goquery.Selection) {
		links = append(links, Link{
			Text: s.Text(),
			Href: s.AttrOr("href", ""),
		})
	})
	return links
}

// Row is one table row.
type Row struct {
	sel *goquery.Selection
}

// Cells returns the row's data cells. Header and separator rows have none.
func (r Row) Cells() []Cell {
	var cells []Cell
	r.sel.Find("td").Each(func(_ int, s *goquery.Selection) {
		cells = append(cells, Cell{sel: s})
	})
	return cells
}

// FirstLink returns the first anchor in the row.
func (r Row) FirstLink() (Link, bool) {
	a := r.sel.Find("a").First()
	if a.Length() == 0 {
		return Link{}, false
	}
	return Link{Text: a.Text(), Href: a.AttrOr("href", "")}, true
}

// Cell is one table cell.
type Cell struct {
	sel *goquery.Selection
}

// Text returns the cell text with source whitespace preserved.
func (c Cell) Text() string { return c.sel.Text() }

// TrimmedText returns the cell text with surrounding whitespace removed.
func (c Cell) TrimmedText() string { return strings.TrimSpace(c.sel.Text()) }

// LinkByID returns the href of the anchor with the given id inside the cell.
func (c Cell) LinkByID(id string) (string, bool) {
	a := c.sel.Find("a#" + id).First()
	if a.Length() == 0 {
		return "", false
	}
	return a.AttrOr("href", ""), true
}

// Link is an anchor's visible text and target.
type Link struct {
	Text string
	Href string
}
