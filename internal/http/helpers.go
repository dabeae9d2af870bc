package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"familyledger/internal/core"
)

// parseDate parses a YYYY-MM-DD query value; empty input yields a zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// clientIP attributes the request to a client for rate limiting and
// tracing. The first X-Forwarded-For hop wins when present.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.Index(fwd, ","); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Wire representations.

type transactionJSON struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Date        string `json:"date"`
	MemberID    string `json:"member_id"`
	MemberName  string `json:"member_name"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.Format(),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(time.RFC3339),
		MemberID:    t.MemberID,
		MemberName:  t.MemberName,
	}
}

func toTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type categoryJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type memberJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar"`
}

type ledgerJSON struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Icon         string         `json:"icon"`
	Description  string         `json:"description"`
	Members      []memberJSON   `json:"members"`
	Categories   []categoryJSON `json:"categories"`
	Transactions int            `json:"transactions"`
}

func toLedgerJSON(l core.Ledger) ledgerJSON {
	out := ledgerJSON{
		ID:           l.ID,
		Name:         l.Name,
		Icon:         l.Icon,
		Description:  l.Description,
		Members:      make([]memberJSON, 0, len(l.Members)),
		Categories:   make([]categoryJSON, 0, len(l.Categories)),
		Transactions: len(l.Transactions),
	}
	for _, m := range l.Members {
		out.Members = append(out.Members, memberJSON{ID: m.ID, Name: m.Name, Role: m.Role, Avatar: m.Avatar})
	}
	for _, c := range l.Categories {
		out.Categories = append(out.Categories, categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	return out
}
