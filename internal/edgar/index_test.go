package edgar

import (
	"reflect"
	"testing"
	"time"
)

func filingIndexPage(rows string) string {
	return `<html><body><table class="tableFile2" summary="Results">
<tr><th>Filings</th><th>Format</th><th>Description</th><th>Filing Date</th><th>File Number</th></tr>
` + rows + `
</table></body></html>`
}

const indexRowsBasic = `
<tr>
 <td nowrap="nowrap">8-K</td>
 <td nowrap="nowrap"><a id="documentsbutton" href="/Archives/edgar/data/320193/000119312520001-index.htm">Documents</a></td>
 <td>Current report filing Items 2.01, 3.02 and 9.01] Acc-no: 0001193125-20-000001</td>
 <td>2020-03-02</td>
 <td><a href="/cgi-bin/browse-edgar?filenum=001">001-36743</a></td>
</tr>
<tr>
 <td nowrap="nowrap">8-K</td>
 <td nowrap="nowrap"><a id="documentsbutton" href="/Archives/edgar/data/320193/000119312520002-index.htm">Documents</a></td>
 <td>Current report filing Item 5.02] Acc-no: 0001193125-20-000002</td>
 <td>2020-02-01</td>
 <td></td>
</tr>
<tr>
 <td nowrap="nowrap">10-K</td>
 <td nowrap="nowrap"><a id="documentsbutton" href="/Archives/edgar/data/320193/000119312519003-index.htm">Documents</a></td>
 <td>Annual report pursuant to Section 13 Acc-no: 0001193125-19-000003</td>
 <td>2019-10-31</td>
 <td></td>
</tr>`

func TestParseFilingIndexBasic(t *testing.T) {
	doc := mustParseDoc(t, filingIndexPage(indexRowsBasic))

	set := ParseFilingIndex(doc, FilingQuery{CIK: "320193"})
	if len(set.Dropped) != 0 {
		t.Fatalf("dropped = %v, want none", set.Dropped)
	}
	if len(set.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(set.Records))
	}

	first := set.Records[0]
	if first.FilingType != "8-K" {
		t.Errorf("FilingType = %q", first.FilingType)
	}
	if first.FilingDate != time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC) {
		t.Errorf("FilingDate = %v", first.FilingDate)
	}
	if want := []string{"2.01", "3.02", "9.01"}; !reflect.DeepEqual(first.ItemNumbers, want) {
		t.Errorf("ItemNumbers = %v, want %v", first.ItemNumbers, want)
	}
	if first.DocumentIndexURL != "/Archives/edgar/data/320193/000119312520001-index.htm" {
		t.Errorf("DocumentIndexURL = %q", first.DocumentIndexURL)
	}
	if first.Content != "" {
		t.Errorf("Content = %q, want unresolved", first.Content)
	}

	// Annual report carries no item references.
	if len(set.Records[2].ItemNumbers) != 0 {
		t.Errorf("10-K ItemNumbers = %v, want none", set.Records[2].ItemNumbers)
	}
}

func TestParseFilingIndexAfterDateFilter(t *testing.T) {
	doc := mustParseDoc(t, filingIndexPage(indexRowsBasic))

	set := ParseFilingIndex(doc, FilingQuery{
		CIK:   "320193",
		After: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if len(set.Records) != 2 {
		t.Fatalf("got %d records, want 2 after date filter", len(set.Records))
	}
	// Filtered rows are excluded, not dropped.
	if len(set.Dropped) != 0 {
		t.Errorf("dropped = %v, want none", set.Dropped)
	}
	// Survivors keep source row order.
	if set.Records[0].FilingDate.Before(set.Records[1].FilingDate) {
		t.Error("records out of source order")
	}
}

func TestParseFilingIndexItemFilter(t *testing.T) {
	doc := mustParseDoc(t, filingIndexPage(indexRowsBasic))

	set := ParseFilingIndex(doc, FilingQuery{CIK: "320193", Item: "5.02"})
	if len(set.Records) != 1 {
		t.Fatalf("got %d records, want 1 for item filter", len(set.Records))
	}
	if set.Records[0].DocumentIndexURL != "/Archives/edgar/data/320193/000119312520002-index.htm" {
		t.Errorf("wrong record survived: %q", set.Records[0].DocumentIndexURL)
	}
}

func TestParseFilingIndexDropsBadRows(t *testing.T) {
	rows := `
<tr>
 <td>8-K</td>
 <td>no link here</td>
 <td>Current report filing Item 5.02]</td>
 <td>2020-02-01</td>
</tr>
<tr>
 <td>8-K</td>
 <td><a id="documentsbutton" href="/Archives/ok-index.htm">Documents</a></td>
 <td>Current report filing Item 5.02]</td>
 <td>someday soon</td>
</tr>
<tr>
 <td>8-K</td>
 <td><a id="documentsbutton" href="/Archives/good-index.htm">Documents</a></td>
 <td>Current report filing Item 5.02]</td>
 <td>2020-02-03</td>
</tr>`
	doc := mustParseDoc(t, filingIndexPage(rows))

	set := ParseFilingIndex(doc, FilingQuery{CIK: "320193"})
	if len(set.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(set.Records))
	}
	if set.Records[0].DocumentIndexURL != "/Archives/good-index.htm" {
		t.Errorf("survivor = %q", set.Records[0].DocumentIndexURL)
	}
	if len(set.Dropped) != 2 {
		t.Fatalf("dropped = %v, want 2 entries", set.Dropped)
	}
	if set.Dropped[0].Reason != "missing documents link" {
		t.Errorf("first drop reason = %q", set.Dropped[0].Reason)
	}
}

func TestParseFilingIndexNoTable(t *testing.T) {
	doc := mustParseDoc(t, `<html><body><h1>No matching filings.</h1></body></html>`)
	set := ParseFilingIndex(doc, FilingQuery{CIK: "320193"})
	if len(set.Records) != 0 || len(set.Dropped) != 0 {
		t.Errorf("got %+v, want empty set", set)
	}
}

func TestParseFilingIndexAlternateDateLayout(t *testing.T) {
	rows := `
<tr>
 <td>8-K</td>
 <td><a id="documentsbutton" href="/Archives/x-index.htm">Documents</a></td>
 <td>Current report filing Item 1.01]</td>
 <td>02/01/2020</td>
</tr>`
	doc := mustParseDoc(t, filingIndexPage(rows))

	set := ParseFilingIndex(doc, FilingQuery{CIK: "320193"})
	if len(set.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(set.Records))
	}
	if set.Records[0].FilingDate != time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("FilingDate = %v", set.Records[0].FilingDate)
	}
}
