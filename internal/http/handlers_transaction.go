package http

import (
	"net/http"

	"familyledger/internal/core"
	"familyledger/internal/editor"
)

// handleTransactions serves the filtered history, accepts creates and
// updates, and deletes single transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.saveTransaction(w, r)
	case http.MethodDelete:
		s.deleteTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := parseDate(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		return
	}

	criteria := core.Criteria{
		Search:   sanitizeInput(q.Get("search")),
		Category: sanitizeInput(q.Get("category")),
		MemberID: q.Get("member"),
		From:     from,
		To:       to,
	}
	txs := s.ledgers.History(r.Context(), criteria)
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionsJSON(txs),
		"count":        len(txs),
	})
}

// saveTransaction creates a transaction, or updates one when id is present.
// A submit may carry a brand-new category alongside; it is appended before
// the transaction is built so the record can reference it immediately.
func (s *Server) saveTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	form := editor.Form{
		Amount:      sanitizeInput(r.Form.Get("amount")),
		Type:        core.TransactionType(r.Form.Get("type")),
		Category:    sanitizeInput(r.Form.Get("category")),
		Description: sanitizeInput(r.Form.Get("description")),
		MemberID:    r.Form.Get("member_id"),
	}

	if newCat := sanitizeInput(r.Form.Get("new_category")); newCat != "" {
		c, err := s.ledgers.AddCategory(r.Context(), newCat,
			sanitizeInput(r.Form.Get("new_category_icon")),
			sanitizeInput(r.Form.Get("new_category_color")))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		form.Category = c.Name
	}

	id := r.Form.Get("id")
	var (
		t      core.Transaction
		err    error
		status = http.StatusCreated
	)
	if id == "" {
		t, err = s.ledgers.AddTransaction(r.Context(), form)
	} else {
		t, err = s.ledgers.UpdateTransaction(r.Context(), id, form)
		status = http.StatusOK
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, status, toTransactionJSON(t))
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	if err := s.ledgers.DeleteTransaction(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleCategories appends a category to the active ledger.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	c, err := s.ledgers.AddCategory(r.Context(),
		sanitizeInput(r.Form.Get("name")),
		sanitizeInput(r.Form.Get("icon")),
		sanitizeInput(r.Form.Get("color")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryJSON{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color})
}
