package core

import (
	"strings"
	"time"
)

// FilterAll is the sentinel criteria value meaning "unconstrained".
const FilterAll = "All"

// Criteria describes a conjunctive transaction filter. Zero values leave a
// dimension unconstrained.
type Criteria struct {
	Search   string
	Category string
	MemberID string
	From     time.Time // inclusive from start of day
	To       time.Time // inclusive through end of day
}

// IsZero reports whether no dimension is constrained.
func (c Criteria) IsZero() bool {
	return c.Search == "" &&
		(c.Category == "" || c.Category == FilterAll) &&
		(c.MemberID == "" || c.MemberID == FilterAll) &&
		c.From.IsZero() && c.To.IsZero()
}

// Matches reports whether the transaction satisfies every constrained
// dimension of the criteria.
func (c Criteria) Matches(t Transaction) bool {
	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) {
			return false
		}
	}
	if c.Category != "" && c.Category != FilterAll && t.Category != c.Category {
		return false
	}
	if c.MemberID != "" && c.MemberID != FilterAll && t.MemberID != c.MemberID {
		return false
	}
	if !c.From.IsZero() && t.Date.Before(startOfDay(c.From)) {
		return false
	}
	if !c.To.IsZero() && t.Date.After(endOfDay(c.To)) {
		return false
	}
	return true
}

// Filter returns the subsequence of txs matching the criteria, preserving
// input order. Filtering never reorders and is idempotent.
func Filter(txs []Transaction, c Criteria) []Transaction {
	if c.IsZero() {
		return append([]Transaction(nil), txs...)
	}
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay returns 23:59:59.999 of t's calendar day, so the whole end day
// is included in range filters.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
