package edgar

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/seenimoa/edgarscope/internal/markup"
	"github.com/seenimoa/edgarscope/pkg/models"
)

// companySearchTableClass marks the results table on the company-search
// page. It is the same class the filing index uses.
const companySearchTableClass = "tableFile2"

// ParseCompanySearch parses a company-search results table into CIK/name
// pairs, preserving source row order. The first data cell, trimmed, is the
// CIK; the second cell keeps its whitespace as EDGAR renders it. Rows
// without data cells (headers, separators) are skipped.
func ParseCompanySearch(doc *goquery.Document) []models.CompanySearchResult {
	table, ok := markup.FindTable(doc, companySearchTableClass)
	if !ok {
		return nil
	}

	var results []models.CompanySearchResult
	for _, row := range table.Rows() {
		cells := row.Cells()
		if len(cells) < 2 {
			continue
		}
		results = append(results, models.CompanySearchResult{
			CIK:         cells[0].TrimmedText(),
			CompanyName: cells[1].Text(),
		})
	}
	return results
}
