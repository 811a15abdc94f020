package edgar

import (
	"fmt"
	"strings"
	"time"
)

// ErrInvalidQuery reports caller-supplied filter input that failed
// validation. The query is rejected before any fetch occurs.
type ErrInvalidQuery struct {
	Field  string
	Reason string
}

func (e *ErrInvalidQuery) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FilingQuery is the validated, normalized filter criteria for a filing
// index query. Zero time bounds mean unbounded.
type FilingQuery struct {
	CIK        string
	FilingType string // uppercased; empty matches any type
	After      time.Time
	Before     time.Time // enforced upstream via the dateb query parameter
	Item       string    // keep only rows whose description references this item
}

const queryDateLayout = "2006-01-02"

// ParseFilingQuery validates and normalizes raw caller input into a
// FilingQuery. Date strings use YYYY-MM-DD; empty optional fields are
// accepted as absent.
func ParseFilingQuery(cik, filingType, after, before, item string) (FilingQuery, error) {
	q := FilingQuery{}

	cik = strings.TrimSpace(cik)
	if cik == "" {
		return q, &ErrInvalidQuery{Field: "cik", Reason: "must not be empty"}
	}
	if strings.ContainsAny(cik, " \t") {
		return q, &ErrInvalidQuery{Field: "cik", Reason: "must not contain whitespace"}
	}
	q.CIK = cik
	q.FilingType = strings.ToUpper(strings.TrimSpace(filingType))
	q.Item = strings.TrimSpace(item)

	var err error
	if q.After, err = parseQueryDate(after); err != nil {
		return q, &ErrInvalidQuery{Field: "after", Reason: "use YYYY-MM-DD"}
	}
	if q.Before, err = parseQueryDate(before); err != nil {
		return q, &ErrInvalidQuery{Field: "before", Reason: "use YYYY-MM-DD"}
	}
	if !q.After.IsZero() && !q.Before.IsZero() && q.Before.Before(q.After) {
		return q, &ErrInvalidQuery{Field: "before", Reason: "must not precede after"}
	}
	return q, nil
}

func parseQueryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(queryDateLayout, s)
}
