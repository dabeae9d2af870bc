package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"familyledger/internal/core"
	"familyledger/internal/ledger"
	"familyledger/internal/services"
)

type fakeAnalyzer struct {
	report string
	err    error
}

func (f fakeAnalyzer) Analyze(ctx context.Context, txs []core.Transaction) (string, error) {
	return f.report, f.err
}

func newTestServer(t *testing.T, analyzer services.Analyzer) (*Server, *ledger.Store) {
	t.Helper()
	store := ledger.NewSeeded()
	srv := NewServer(":0",
		services.NewLedgerService(store),
		services.NewAdvisoryService(store, analyzer))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func do(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestReadinessChecks(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodGet, "/readyz", "")
	if rr.Code != 200 {
		t.Fatalf("readyz status=%d", rr.Code)
	}
	var ready struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}
	decode(t, rr, &ready)
	if ready.Status != "ready" {
		t.Fatalf("status=%q", ready.Status)
	}
	for _, name := range []string{"ledger_store", "cache", "rate_limiter"} {
		if _, ok := ready.Checks[name]; !ok {
			t.Fatalf("missing %s check: %v", name, ready.Checks)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})

	// Two API hits first so the request counter has something to report.
	do(srv, http.MethodGet, "/api/summary", "")
	do(srv, http.MethodGet, "/api/breakdown", "")

	rr := do(srv, http.MethodGet, "/metrics", "")
	if rr.Code != 200 {
		t.Fatalf("metrics status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type=%q", ct)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"transactions_total 3",
		"breakdown_cache_entries 1",
		"ratelimit_active_clients 1",
		"uptime_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("metrics missing %q:\n%s", metric, body)
		}
	}
	if strings.Contains(body, "http_requests_total 0") {
		t.Fatalf("request counter never incremented:\n%s", body)
	}

	rr = do(srv, http.MethodPost, "/metrics", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
}

func TestCreateTransactionValidationAndSuccess(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodPut, "/api/transactions", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/transactions", "amount=abc&type=EXPENSE&category=餐饮&member_id=m1")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad amount, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/transactions", "amount=12.34&type=TRANSFER&category=餐饮&member_id=m1")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for bad type, got %d", rr.Code)
	}

	before := len(mustActive(t, store).Transactions)
	rr = do(srv, http.MethodPost, "/api/transactions", "amount=12.34&type=EXPENSE&category=餐饮&description=午餐&member_id=m1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID          string `json:"id"`
		AmountCents int64  `json:"amount_cents"`
		MemberName  string `json:"member_name"`
	}
	decode(t, rr, &created)
	if created.AmountCents != 1234 {
		t.Fatalf("amount_cents=%d", created.AmountCents)
	}
	if created.MemberName != "我" {
		t.Fatalf("member_name=%q", created.MemberName)
	}
	l := mustActive(t, store)
	if len(l.Transactions) != before+1 {
		t.Fatalf("transactions=%d, want %d", len(l.Transactions), before+1)
	}
	if l.Transactions[0].ID != created.ID {
		t.Fatalf("new transaction not first in history")
	}
}

func TestUpdateTransactionPreservesPosition(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{})
	l := mustActive(t, store)
	target := l.Transactions[1]

	rr := do(srv, http.MethodPost, "/api/transactions",
		"id="+target.ID+"&amount=99&type=EXPENSE&category=其他&description=改&member_id=m2")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	after := mustActive(t, store)
	if after.Transactions[1].ID != target.ID {
		t.Fatalf("edited transaction moved")
	}
	if after.Transactions[1].Amount.Cents != 9900 {
		t.Fatalf("amount=%d", after.Transactions[1].Amount.Cents)
	}
	if !after.Transactions[1].Date.Equal(target.Date) {
		t.Fatalf("edit changed the date")
	}

	rr = do(srv, http.MethodPost, "/api/transactions",
		"id=nope&amount=1&type=EXPENSE&category=其他&member_id=m1")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", rr.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{})
	target := mustActive(t, store).Transactions[0]

	rr := do(srv, http.MethodDelete, "/api/transactions?id="+target.ID, "")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rr = do(srv, http.MethodDelete, "/api/transactions?id="+target.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("repeat delete expected 404, got %d", rr.Code)
	}
	rr = do(srv, http.MethodDelete, "/api/transactions", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing id expected 400, got %d", rr.Code)
	}
}

func TestListTransactionsFilter(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodGet, "/api/transactions?category=餐饮", "")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	var out struct {
		Count        int `json:"count"`
		Transactions []struct {
			Category string `json:"category"`
		} `json:"transactions"`
	}
	decode(t, rr, &out)
	if out.Count != 1 {
		t.Fatalf("count=%d, want 1", out.Count)
	}
	for _, tx := range out.Transactions {
		if tx.Category != "餐饮" {
			t.Fatalf("filter leaked category %q", tx.Category)
		}
	}

	rr = do(srv, http.MethodGet, "/api/transactions?from=bogus", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date expected 400, got %d", rr.Code)
	}

	rr = do(srv, http.MethodGet, "/api/transactions?category=All&member=All", "")
	decode(t, rr, &out)
	if out.Count != 3 {
		t.Fatalf("All sentinel should not constrain, count=%d", out.Count)
	}
}

func TestNewCategoryAlongsideTransaction(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{})
	before := len(mustActive(t, store).Categories)

	rr := do(srv, http.MethodPost, "/api/transactions",
		"amount=5&type=EXPENSE&new_category=宠物&new_category_icon=🐶&new_category_color=bg-lime-500&member_id=m1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	l := mustActive(t, store)
	if len(l.Categories) != before+1 {
		t.Fatalf("categories=%d, want %d", len(l.Categories), before+1)
	}
	if l.Transactions[0].Category != "宠物" {
		t.Fatalf("transaction category=%q", l.Transactions[0].Category)
	}
}

func TestSummaryAndBreakdown(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodGet, "/api/summary", "")
	var totals struct {
		Income  int64 `json:"income_cents"`
		Expense int64 `json:"expense_cents"`
		Balance int64 `json:"balance_cents"`
	}
	decode(t, rr, &totals)
	if totals.Balance != totals.Income-totals.Expense {
		t.Fatalf("balance=%d income=%d expense=%d", totals.Balance, totals.Income, totals.Expense)
	}

	rr = do(srv, http.MethodGet, "/api/breakdown", "")
	if rr.Code != 200 {
		t.Fatalf("breakdown status=%d", rr.Code)
	}
	var bd struct {
		Breakdown []struct {
			Category    string `json:"category"`
			Icon        string `json:"icon"`
			AmountCents int64  `json:"amount_cents"`
		} `json:"breakdown"`
	}
	decode(t, rr, &bd)
	if len(bd.Breakdown) == 0 {
		t.Fatalf("empty breakdown over seeded ledger")
	}
	for _, e := range bd.Breakdown {
		if e.Icon == "" {
			t.Fatalf("category %q missing icon", e.Category)
		}
	}
}

func TestBreakdownCacheInvalidatesOnWrite(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodGet, "/api/breakdown", "")
	first := rr.Body.String()
	rr = do(srv, http.MethodGet, "/api/breakdown", "")
	if rr.Body.String() != first {
		t.Fatalf("repeated read differed without a write")
	}

	rr = do(srv, http.MethodPost, "/api/transactions", "amount=777&type=EXPENSE&category=其他&member_id=m1")
	if rr.Code != http.StatusCreated {
		t.Fatalf("write failed: %d", rr.Code)
	}
	rr = do(srv, http.MethodGet, "/api/breakdown", "")
	if rr.Body.String() == first {
		t.Fatalf("breakdown stale after write")
	}
}

func TestLedgerCreateAndActivate(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{})

	rr := do(srv, http.MethodPost, "/api/ledgers", "name=&icon=📒")
	if rr.Code != 422 {
		t.Fatalf("empty name expected 422, got %d", rr.Code)
	}

	rr = do(srv, http.MethodPost, "/api/ledgers", "name=旅行账本&icon=✈️")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	var created struct {
		ID           string `json:"id"`
		Transactions int    `json:"transactions"`
	}
	decode(t, rr, &created)
	if created.Transactions != 0 {
		t.Fatalf("new ledger should start empty, got %d", created.Transactions)
	}

	rr = do(srv, http.MethodPost, "/api/ledgers/activate", "id="+created.ID)
	if rr.Code != 200 {
		t.Fatalf("activate status=%d", rr.Code)
	}
	if store.ActiveID() != created.ID {
		t.Fatalf("active=%s, want %s", store.ActiveID(), created.ID)
	}

	// Unknown id is a silent no-op.
	rr = do(srv, http.MethodPost, "/api/ledgers/activate", "id=ghost")
	if rr.Code != 200 {
		t.Fatalf("no-op activate status=%d", rr.Code)
	}
	if store.ActiveID() != created.ID {
		t.Fatalf("unknown id moved the pointer")
	}

	rr = do(srv, http.MethodGet, "/api/ledgers", "")
	var list struct {
		ActiveID string       `json:"active_id"`
		Ledgers  []ledgerJSON `json:"ledgers"`
	}
	decode(t, rr, &list)
	if list.ActiveID != created.ID {
		t.Fatalf("active_id=%s", list.ActiveID)
	}
	if len(list.Ledgers) != 2 {
		t.Fatalf("ledgers=%d, want 2", len(list.Ledgers))
	}
}

func TestAdvisoryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, fakeAnalyzer{report: "建议：少点外卖。"})

	rr := do(srv, http.MethodGet, "/api/advisory", "")
	var st struct {
		State  string `json:"state"`
		Report string `json:"report"`
	}
	decode(t, rr, &st)
	if st.State != "idle" {
		t.Fatalf("initial state=%q", st.State)
	}

	rr = do(srv, http.MethodPost, "/api/advisory", "")
	if rr.Code != 200 {
		t.Fatalf("advisory status=%d", rr.Code)
	}
	decode(t, rr, &st)
	if st.State != "succeeded" || st.Report == "" {
		t.Fatalf("state=%q report=%q", st.State, st.Report)
	}
}

func TestAdvisoryFailureStaysHTTP200(t *testing.T) {
	srv, store := newTestServer(t, fakeAnalyzer{err: context.DeadlineExceeded})
	rev := store.Revision()

	rr := do(srv, http.MethodPost, "/api/advisory", "")
	if rr.Code != 200 {
		t.Fatalf("failed advisory must still be 200, got %d", rr.Code)
	}
	var st struct {
		State  string `json:"state"`
		Report string `json:"report"`
	}
	decode(t, rr, &st)
	if st.State != "failed" {
		t.Fatalf("state=%q", st.State)
	}
	if st.Report == "" {
		t.Fatalf("failure must carry a user-facing message")
	}
	if store.Revision() != rev {
		t.Fatalf("failed advisory mutated the store")
	}
}

func mustActive(t *testing.T, store *ledger.Store) core.Ledger {
	t.Helper()
	l, ok := store.Active()
	if !ok {
		t.Fatalf("no active ledger")
	}
	return l
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
