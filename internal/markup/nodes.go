package markup

import (
	"github.com/PuerkitoBio/goquery"
)

// NodeKind classifies a markup node for boundary scanning.
type NodeKind string

const (
	NodeBold      NodeKind = "bold"      // b, strong
	NodeParagraph NodeKind = "paragraph" // p
	NodeDivision  NodeKind = "division"  // div
	NodeRule      NodeKind = "rule"      // hr
	NodeTable     NodeKind = "table"
	NodeOther     NodeKind = "other"
)

// Node is one element of the flat document view: a kind, its text, and the
// underlying selection for structural lookups (enclosing table, siblings).
type Node struct {
	Kind NodeKind
	Text string
	Sel  *goquery.Selection
}

// KindOf classifies a single-element selection.
func KindOf(sel *goquery.Selection) NodeKind {
	switch goquery.NodeName(sel) {
	case "b", "strong":
		return NodeBold
	case "p":
		return NodeParagraph
	case "div":
		return NodeDivision
	case "hr":
		return NodeRule
	case "table":
		return NodeTable
	default:
		return NodeOther
	}
}

// BoldNodes returns every bold-emphasis node in document order.
func BoldNodes(doc *goquery.Document) []Node {
	return collect(doc.Find("b, strong"))
}

// DivisionNodes returns every division block in document order. Nested
// divisions appear once per nesting level; callers that treat the result as
// a flat text sequence must tolerate repeated text.
func DivisionNodes(doc *goquery.Document) []Node {
	return collect(doc.Find("div"))
}

// FollowingSiblings returns the nodes after sel at the same nesting level,
// in document order.
func FollowingSiblings(sel *goquery.Selection) []Node {
	var nodes []Node
	for sib := sel.Next(); sib.Length() > 0; sib = sib.Next() {
		nodes = append(nodes, Node{Kind: KindOf(sib), Text: sib.Text(), Sel: sib})
	}
	return nodes
}

// EnclosingTable returns the nearest ancestor table of sel.
func EnclosingTable(sel *goquery.Selection) (*goquery.Selection, bool) {
	t := sel.Closest("table")
	if t.Length() == 0 {
		return nil, false
	}
	return t, true
}

func collect(sel *goquery.Selection) []Node {
	var nodes []Node
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, Node{Kind: KindOf(s), Text: s.Text(), Sel: s})
	})
	return nodes
}
