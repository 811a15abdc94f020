package edgar

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustParseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse test markup: %v", err)
	}
	return doc
}
