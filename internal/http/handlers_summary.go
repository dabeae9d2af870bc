package http

import (
	"fmt"
	"net/http"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	totals := s.ledgers.Summary(r.Context())
	writeJSON(w, http.StatusOK, map[string]int64{
		"income_cents":  totals.Income.Cents,
		"expense_cents": totals.Expense.Cents,
		"balance_cents": totals.Balance().Cents,
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	key := s.breakdownKey(r)
	breakdown, ok := s.breakdownCache.Get(key)
	if !ok {
		breakdown = s.ledgers.Breakdown(r.Context())
		s.breakdownCache.Set(key, breakdown)
	}

	type entryJSON struct {
		Category    string `json:"category"`
		Icon        string `json:"icon"`
		AmountCents int64  `json:"amount_cents"`
		Amount      string `json:"amount"`
	}
	l, _ := s.ledgers.Active(r.Context())
	out := make([]entryJSON, 0, len(breakdown))
	for _, e := range breakdown {
		out = append(out, entryJSON{
			Category:    e.Name,
			Icon:        l.CategoryIcon(e.Name),
			AmountCents: e.Amount.Cents,
			Amount:      e.Amount.Format(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"breakdown": out})
}

// breakdownKey embeds the store revision so any write invalidates the
// cached entry immediately.
func (s *Server) breakdownKey(r *http.Request) string {
	l, _ := s.ledgers.Active(r.Context())
	return fmt.Sprintf("breakdown:%s:%d", l.ID, s.ledgers.Revision())
}
