package edgar

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/edgarscope/internal/markup"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// boldMarkerPrefix is the item-boundary marker some filings render as a
// bold running header: "Item<nbsp>5.02.".
const boldMarkerPrefix = "Item\u00a0"

// signatureMarker terminates the last item's body in plain-block filings.
const signatureMarker = "SIGNATURE"

var itemNumberPattern = regexp.MustCompile(`\d[\d.,]*`)

// ExtractItemContent extracts the narrative fragment belonging to each
// requested item number from a filing document. Blocks come back in order
// of first appearance; a requested number the document never mentions simply
// produces no block.
//
// Two heuristics run in order: bold-marker anchored extraction for filings
// that render item boundaries as bold headers inside a summary table, and a
// division-block fallback for filings laid out as plain sequential text
// blocks. The fallback runs only when the bold scan finds nothing.
//
// With no requested numbers the whole document body is returned as a single
// unlabeled block.
func ExtractItemContent(doc *goquery.Document, requested []string) []models.ItemContentBlock {
	if len(requested) == 0 {
		return wholeDocument(doc)
	}

	want := make(map[string]bool, len(requested))
	for _, n := range requested {
		want[n] = true
	}

	blocks := extractBoldAnchored(doc, want)
	if len(blocks) == 0 {
		blocks = extractDivisionAnchored(doc, want)
	}
	return blocks
}

func wholeDocument(doc *goquery.Document) []models.ItemContentBlock {
	body, err := doc.Find("body").Html()
	if err != nil || body == "" {
		if full, herr := doc.Html(); herr == nil {
			body = full
		}
	}
	return []models.ItemContentBlock{{Fragment: body}}
}

// extractBoldAnchored scans bold nodes for "Item<nbsp>N." markers. The bold
// node after the marker is the item's title (empty when absent); the item's
// body is every paragraph and division following the marker's enclosing
// table, up to the first horizontal rule.
func extractBoldAnchored(doc *goquery.Document, want map[string]bool) []models.ItemContentBlock {
	bolds := markup.BoldNodes(doc)
	emitted := make(map[string]bool)

	var blocks []models.ItemContentBlock
	for i, node := range bolds {
		marker := strings.TrimSpace(node.Text)
		if !strings.HasPrefix(marker, boldMarkerPrefix) {
			continue
		}
		num := strings.TrimSuffix(strings.TrimPrefix(marker, boldMarkerPrefix), ".")
		if !want[num] || emitted[num] {
			continue
		}

		title := ""
		if i+1 < len(bolds) {
			title = strings.TrimSpace(bolds[i+1].Text)
		}

		table, ok := markup.EnclosingTable(node.Sel)
		if !ok {
			continue
		}

		var frag strings.Builder
		frag.WriteString("<b>")
		frag.WriteString(html.EscapeString(marker))
		if title != "" {
			frag.WriteString(" ")
			frag.WriteString(html.EscapeString(title))
		}
		frag.WriteString("</b>")

		for _, sib := range markup.FollowingSiblings(table) {
			if sib.Kind == markup.NodeRule {
				break
			}
			if sib.Kind == markup.NodeParagraph || sib.Kind == markup.NodeDivision {
				writeParagraph(&frag, sib.Text)
			}
		}

		emitted[num] = true
		blocks = append(blocks, models.ItemContentBlock{ItemNumber: num, Fragment: frag.String()})
	}
	return blocks
}

// extractDivisionAnchored scans division blocks for text starting with
// "Item". The item number is the first digit run in the block; the body is
// every following division up to the next "Item" or "SIGNATURE" block.
// A block repeating the immediately preceding captured text is skipped —
// nested markup renders the same text node at multiple levels.
func extractDivisionAnchored(doc *goquery.Document, want map[string]bool) []models.ItemContentBlock {
	divs := markup.DivisionNodes(doc)
	emitted := make(map[string]bool)

	var blocks []models.ItemContentBlock
	for i, node := range divs {
		header := strings.TrimSpace(node.Text)
		if !strings.HasPrefix(header, "Item") {
			continue
		}
		num := itemNumberIn(header)
		if num == "" || !want[num] || emitted[num] {
			continue
		}

		var frag strings.Builder
		frag.WriteString("<b>")
		frag.WriteString(html.EscapeString(header))
		frag.WriteString("</b>")

		last := header
		for _, next := range divs[i+1:] {
			text := strings.TrimSpace(next.Text)
			// Nested markup renders the same text at multiple levels; a
			// repeat of the previous capture is never a boundary, even when
			// it starts with "Item".
			if text == "" || text == last {
				continue
			}
			if strings.HasPrefix(text, "Item") || strings.HasPrefix(text, signatureMarker) {
				break
			}
			writeParagraph(&frag, text)
			last = text
		}

		emitted[num] = true
		blocks = append(blocks, models.ItemContentBlock{ItemNumber: num, Fragment: frag.String()})
	}
	return blocks
}

// itemNumberIn pulls the first digit run out of an item header, dropping
// commas and edge periods: "Item 5.02. Departure..." yields "5.02".
func itemNumberIn(text string) string {
	m := itemNumberPattern.FindString(text)
	m = strings.ReplaceAll(m, ",", "")
	return strings.Trim(m, ".")
}

func writeParagraph(b *strings.Builder, text string) {
	b.WriteString("<p>")
	b.WriteString(html.EscapeString(strings.TrimSpace(text)))
	b.WriteString("</p>")
}
