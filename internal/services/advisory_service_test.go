package services

import (
	"context"
	"testing"

	"familyledger/internal/advisory"
	"familyledger/internal/core"
	"familyledger/internal/ledger"
)

type fakeAnalyzer struct {
	report string
	err    error
	calls  int
	seen   []core.Transaction
}

func (f *fakeAnalyzer) Analyze(_ context.Context, txs []core.Transaction) (string, error) {
	f.calls++
	f.seen = txs
	return f.report, f.err
}

func TestRequestSuccess(t *testing.T) {
	store := ledger.NewSeeded()
	fa := &fakeAnalyzer{report: "省钱建议 💡"}
	s := NewAdvisoryService(store, fa)

	if state, _ := s.Last(); state != AdvisoryIdle {
		t.Fatalf("expected idle before first request, got %s", state)
	}
	got := s.Request(context.Background())
	if got != "省钱建议 💡" {
		t.Fatalf("unexpected report: %q", got)
	}
	state, report := s.Last()
	if state != AdvisorySucceeded || report != got {
		t.Fatalf("unexpected state after success: %s %q", state, report)
	}
	if len(fa.seen) != 3 {
		t.Fatalf("analyzer should receive the active ledger's transactions, got %d", len(fa.seen))
	}
}

func TestRequestFailureResolvesToMessage(t *testing.T) {
	store := ledger.NewSeeded()
	before, _ := store.Active()
	s := NewAdvisoryService(store, &fakeAnalyzer{err: advisory.ErrNotConfigured})

	got := s.Request(context.Background())
	if got == "" {
		t.Fatalf("failure must resolve to a non-empty explanatory string")
	}
	state, report := s.Last()
	if state != AdvisoryFailed || report != got {
		t.Fatalf("unexpected state after failure: %s %q", state, report)
	}
	// A failed advisory call never mutates transactions
	after, _ := store.Active()
	if len(after.Transactions) != len(before.Transactions) {
		t.Fatalf("advisory failure mutated the ledger")
	}
	if store.Revision() != 0 {
		t.Fatalf("advisory touched store revision")
	}
}

func TestRequestRetriggerRunsIndependentCall(t *testing.T) {
	store := ledger.NewSeeded()
	fa := &fakeAnalyzer{report: "ok"}
	s := NewAdvisoryService(store, fa)

	s.Request(context.Background())
	s.Request(context.Background())
	if fa.calls != 2 {
		t.Fatalf("each trigger must start an independent call, got %d", fa.calls)
	}
}

func TestUnconfiguredClientEndToEnd(t *testing.T) {
	store := ledger.NewSeeded()
	s := NewAdvisoryService(store, advisory.New("", ""))

	got := s.Request(context.Background())
	if got == "" {
		t.Fatalf("expected remediation text for missing credential")
	}
	if state, _ := s.Last(); state != AdvisoryFailed {
		t.Fatalf("expected failed state, got %s", state)
	}
}
