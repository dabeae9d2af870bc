package http

import (
	"net/http"
)

// handleLedgers lists every ledger or creates a new one.
func (s *Server) handleLedgers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ledgers, activeID := s.ledgers.Ledgers(r.Context())
		out := make([]ledgerJSON, 0, len(ledgers))
		for _, l := range ledgers {
			out = append(out, toLedgerJSON(l))
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"active_id": activeID,
			"ledgers":   out,
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form data")
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		icon := sanitizeInput(r.Form.Get("icon"))

		l, err := s.ledgers.CreateLedger(r.Context(), name, icon)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLedgerJSON(l))

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleActivateLedger switches the active pointer. An unknown id is a
// silent no-op: the response reports the pointer as it stands.
func (s *Server) handleActivateLedger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	s.ledgers.SwitchLedger(r.Context(), r.Form.Get("id"))
	_, activeID := s.ledgers.Ledgers(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"active_id": activeID})
}
