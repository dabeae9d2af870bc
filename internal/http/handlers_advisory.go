package http

import (
	"net/http"

	"familyledger/internal/log"
	"familyledger/internal/middleware/trace"
)

// handleAdvisory triggers an analysis (POST) or reads the last result
// (GET). A failed analysis is still a 200: the report field then carries a
// user-facing explanation rather than an error payload, and the state field
// tells the two apart.
func (s *Server) handleAdvisory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.logger.InfoContext(r.Context(), "Advisory analysis requested",
			log.FieldRequestID, trace.GetRequestID(r.Context()))
		report := s.advisory.Request(r.Context())
		state, _ := s.advisory.Last()
		writeJSON(w, http.StatusOK, map[string]string{
			"state":  string(state),
			"report": report,
		})

	case http.MethodGet:
		state, report := s.advisory.Last()
		writeJSON(w, http.StatusOK, map[string]string{
			"state":  string(state),
			"report": report,
		})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}
