package services

import (
	"context"
	"log/slog"
	"sync"

	"familyledger/internal/advisory"
	"familyledger/internal/core"
	"familyledger/internal/ledger"
	"familyledger/internal/log"
)

// AdvisoryState tracks the lifecycle of the latest advisory request.
type AdvisoryState string

const (
	AdvisoryIdle       AdvisoryState = "idle"
	AdvisoryRequesting AdvisoryState = "requesting"
	AdvisorySucceeded  AdvisoryState = "succeeded"
	AdvisoryFailed     AdvisoryState = "failed"
)

// Analyzer is the outbound port to the text-generation service.
type Analyzer interface {
	Analyze(ctx context.Context, txs []core.Transaction) (string, error)
}

// AdvisoryService runs one-shot advisory requests over the active ledger.
// Failures resolve to user-facing report strings, never to errors; a failed
// call leaves ledger state untouched. Re-triggering while a request is in
// flight simply starts a second independent call.
type AdvisoryService struct {
	store    *ledger.Store
	analyzer Analyzer

	mu     sync.Mutex
	state  AdvisoryState
	report string
}

func NewAdvisoryService(store *ledger.Store, analyzer Analyzer) *AdvisoryService {
	return &AdvisoryService{store: store, analyzer: analyzer, state: AdvisoryIdle}
}

// Request summarizes the active ledger's transactions and asks the model
// for advice. It always returns a non-empty report string: advisory text on
// success, an explanatory message on any failure. The call blocks until the
// transport resolves; no timeout is imposed here.
func (s *AdvisoryService) Request(ctx context.Context) string {
	l, _ := s.store.Active()

	s.setState(AdvisoryRequesting, "")
	report, err := s.analyzer.Analyze(ctx, l.Transactions)
	if err != nil {
		msg := advisory.MessageFor(err)
		slog.WarnContext(ctx, "Advisory request failed",
			log.FieldError, err,
			log.FieldComponent, log.ComponentAdvisory,
			log.FieldOperation, log.OpAnalyze)
		s.setState(AdvisoryFailed, msg)
		return msg
	}

	slog.InfoContext(ctx, "Advisory request succeeded",
		"report_length", len(report),
		log.FieldComponent, log.ComponentAdvisory,
		log.FieldOperation, log.OpAnalyze)
	s.setState(AdvisorySucceeded, report)
	return report
}

// Last returns the state and report of the most recent request.
func (s *AdvisoryService) Last() (AdvisoryState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.report
}

func (s *AdvisoryService) setState(state AdvisoryState, report string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.report = report
}
