package api

import (
	"fmt"
	"html"
	"strings"

	"github.com/seenimoa/edgarscope/internal/edgar"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// Fragment rendering for the ajax endpoints. The output is a plain HTML
// snippet meant to be injected into a results pane, so everything except
// extracted item fragments (which are already HTML) is escaped.

func renderFilingsFragment(data any) string {
	set, ok := data.(*edgar.FilingSet)
	if !ok || len(set.Records) == 0 {
		return `<p class="empty">No filings found.</p>`
	}

	var b strings.Builder
	b.WriteString(`<table class="filings">` + "\n")
	b.WriteString("<tr><th>Type</th><th>Date</th><th>Items</th><th>Content</th></tr>\n")
	for _, rec := range set.Records {
		b.WriteString("<tr>")
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(rec.FilingType))
		fmt.Fprintf(&b, "<td>%s</td>", rec.FilingDate.Format("2006-01-02"))
		fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(strings.Join(rec.ItemNumbers, ", ")))
		b.WriteString("<td>")
		b.WriteString(renderContentCell(rec.Content))
		b.WriteString("</td>")
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String()
}

// renderContentCell links resolved document URLs; the sentinel strings
// pass through as text.
func renderContentCell(content string) string {
	switch content {
	case "", models.ContentNotFound, models.ContentConnectionError:
		if content == "" {
			content = models.ContentNotFound
		}
		return html.EscapeString(content)
	}
	escaped := html.EscapeString(content)
	return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, escaped, escaped)
}

func renderSearchFragment(data any) string {
	results, ok := data.([]models.CompanySearchResult)
	if !ok || len(results) == 0 {
		return `<p class="empty">No companies found.</p>`
	}

	var b strings.Builder
	b.WriteString(`<ul class="companies">` + "\n")
	for _, r := range results {
		fmt.Fprintf(&b, `<li data-cik="%s">%s</li>`+"\n",
			html.EscapeString(r.CIK), html.EscapeString(r.CompanyName))
	}
	b.WriteString("</ul>")
	return b.String()
}

func renderContentFragment(data any) string {
	blocks, ok := data.([]models.ItemContentBlock)
	if !ok || len(blocks) == 0 {
		return `<p class="empty">` + html.EscapeString(models.ContentNotFound) + `</p>`
	}

	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			b.WriteString("\n<hr>\n")
		}
		if blk.ItemNumber != "" {
			fmt.Fprintf(&b, `<h4>Item %s</h4>`+"\n", html.EscapeString(blk.ItemNumber))
		}
		// Fragment is HTML captured from the filing document itself.
		b.WriteString(blk.Fragment)
	}
	return b.String()
}
