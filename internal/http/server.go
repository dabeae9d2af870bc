// Package http exposes the ledger core over a JSON API. This is the
// presentation-boundary adapter: it parses intent, calls the services, and
// renders whatever they return, including advisory error strings.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"familyledger/internal/cache"
	"familyledger/internal/core"
	"familyledger/internal/log"
	"familyledger/internal/middleware/ratelimit"
	"familyledger/internal/middleware/security"
	"familyledger/internal/middleware/trace"
	"familyledger/internal/services"
)

type Server struct {
	http.Server

	ledgers  *services.LedgerService
	advisory *services.AdvisoryService

	logger  *log.Logger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	started time.Time

	// breakdownCache memoizes the category breakdown. Keys embed the store
	// revision, so a mutated ledger can never serve a stale entry.
	breakdownCache *cache.LRU[[]core.CategoryAmount]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, ledgers *services.LedgerService, advisory *services.AdvisoryService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledgers:          ledgers,
		advisory:         advisory,
		logger:           log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:           trace.NewMiddleware(clientIP),
		started:          time.Now(),
		breakdownCache:   cache.New[[]core.CategoryAmount](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/api/ledgers", s.handleLedgers)
	mux.HandleFunc("/api/ledgers/activate", s.handleActivateLedger)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/categories", s.handleCategories)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/breakdown", s.handleBreakdown)
	mux.HandleFunc("/api/advisory", s.handleAdvisory)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := s.tracer.Middleware(headers.Middleware(s.limiter.Middleware(clientIP)(mux)))

	s.Server = http.Server{Addr: addr, Handler: handler}

	go s.cacheCleanupLoop()
	return s
}

func (s *Server) cacheCleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.breakdownCache.CleanExpired(); n > 0 {
				s.logger.WithComponent(log.ComponentCache).Debug("Cache cleanup completed", "entries_removed", n)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the background loops and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports per-subsystem readiness. The server is not ready
// when no ledger is active, which only happens before seeding completes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	ledgers, activeID := s.ledgers.Ledgers(r.Context())
	if activeID == "" {
		s.logger.ErrorContext(r.Context(), "Readiness check failed, no active ledger")
		checks["ledger_store"] = "no_active_ledger"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["ledger_store"] = map[string]any{
			"ledgers": len(ledgers),
			"status":  "ok",
		}
	}
	checks["cache"] = map[string]any{
		"breakdown_entries": s.breakdownCache.Len(),
		"status":            "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics serves application counters in plain text.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	totals := s.ledgers.Summary(r.Context())
	l, _ := s.ledgers.Active(r.Context())

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", s.tracer.TotalRequests())

	fmt.Fprintf(w, "# HELP transactions_total Transactions in the active ledger\n")
	fmt.Fprintf(w, "# TYPE transactions_total gauge\n")
	fmt.Fprintf(w, "transactions_total %d\n\n", len(l.Transactions))

	fmt.Fprintf(w, "# HELP balance_cents Active ledger balance in cents\n")
	fmt.Fprintf(w, "# TYPE balance_cents gauge\n")
	fmt.Fprintf(w, "balance_cents %d\n\n", totals.Balance().Cents)

	fmt.Fprintf(w, "# HELP breakdown_cache_entries Cached breakdown responses\n")
	fmt.Fprintf(w, "# TYPE breakdown_cache_entries gauge\n")
	fmt.Fprintf(w, "breakdown_cache_entries %d\n\n", s.breakdownCache.Len())

	fmt.Fprintf(w, "# HELP ratelimit_active_clients Clients tracked by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE ratelimit_active_clients gauge\n")
	fmt.Fprintf(w, "ratelimit_active_clients %d\n\n", s.limiter.ActiveClients())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}
