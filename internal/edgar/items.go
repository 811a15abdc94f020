package edgar

import (
	"strconv"
	"strings"
)

// ParseItemReferences extracts the disclosure item numbers referenced by a
// filing's free-text description, in the order they appear. Descriptions
// come in exactly two grammatical shapes, "Item 5.02]" and
// "Items 2.01, 3.02 and 9.01]", intermixed with accession-number
// boilerplate. A description that references no items yields an empty
// result; that is not an error.
func ParseItemReferences(description string) []string {
	tokens := strings.Fields(description)
	for i, raw := range tokens {
		switch cleanToken(raw) {
		case "item":
			if i+1 >= len(tokens) {
				return nil
			}
			return []string{cleanToken(tokens[i+1])}
		case "items":
			if i+1 >= len(tokens) {
				return nil
			}
			refs := []string{cleanToken(tokens[i+1])}
			for _, next := range tokens[i+2:] {
				tok := cleanToken(next)
				if tok == "and" {
					continue
				}
				if !isDecimal(tok) {
					return refs
				}
				refs = append(refs, tok)
			}
			return refs
		}
	}
	return nil
}

// cleanToken lowercases a token and strips the punctuation and boilerplate
// markers that cling to item numbers in filing descriptions.
func cleanToken(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "]", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, "acc-no:", "")
}

// isDecimal reports whether s parses as a plain decimal number. Item numbers
// are decimal ("5.02"); alphanumeric disclosure codes are not recognized.
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
