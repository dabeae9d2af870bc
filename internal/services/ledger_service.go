package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"familyledger/internal/core"
	"familyledger/internal/editor"
	"familyledger/internal/ledger"
	"familyledger/internal/log"
)

var (
	ErrNoActiveLedger      = errors.New("no active ledger")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// LedgerService orchestrates the editor and the ledger store: every write
// route lands in the store through a single UpdateActive call, so a failed
// validation never leaves a half-applied mutation behind.
type LedgerService struct {
	store *ledger.Store
}

func NewLedgerService(store *ledger.Store) *LedgerService {
	return &LedgerService{store: store}
}

// AddTransaction validates the form and prepends the new transaction to the
// active ledger (history is kept most recent first).
func (s *LedgerService) AddTransaction(ctx context.Context, f editor.Form) (core.Transaction, error) {
	l, ok := s.store.Active()
	if !ok {
		return core.Transaction{}, ErrNoActiveLedger
	}
	t, err := editor.Build(f, nil, l.Members)
	if err != nil {
		return core.Transaction{}, err
	}

	txs := append([]core.Transaction{t}, l.Transactions...)
	s.store.UpdateActive(ledger.Patch{Transactions: &txs})

	slog.InfoContext(ctx, "Transaction created",
		log.FieldTxID, t.ID,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldTxType, string(t.Type),
		log.FieldCategory, t.Category,
		log.FieldMemberID, t.MemberID,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpCreate)
	return t, nil
}

// UpdateTransaction replaces the identified transaction in place, keeping
// its original id, date and position in the history.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, f editor.Form) (core.Transaction, error) {
	l, ok := s.store.Active()
	if !ok {
		return core.Transaction{}, ErrNoActiveLedger
	}
	idx := -1
	for i, t := range l.Transactions {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Transaction{}, ErrTransactionNotFound
	}

	t, err := editor.Build(f, &l.Transactions[idx], l.Members)
	if err != nil {
		return core.Transaction{}, err
	}
	txs := append([]core.Transaction(nil), l.Transactions...)
	txs[idx] = t
	s.store.UpdateActive(ledger.Patch{Transactions: &txs})

	slog.InfoContext(ctx, "Transaction updated",
		log.FieldTxID, t.ID,
		log.FieldAmountCents, t.Amount.Cents,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpUpdate)
	return t, nil
}

// DeleteTransaction permanently removes exactly one transaction; relative
// order of the rest is unchanged. Deletion is irreversible.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	l, ok := s.store.Active()
	if !ok {
		return ErrNoActiveLedger
	}
	txs := make([]core.Transaction, 0, len(l.Transactions))
	found := false
	for _, t := range l.Transactions {
		if t.ID == id {
			found = true
			continue
		}
		txs = append(txs, t)
	}
	if !found {
		return ErrTransactionNotFound
	}
	s.store.UpdateActive(ledger.Patch{Transactions: &txs})

	slog.InfoContext(ctx, "Transaction deleted",
		log.FieldTxID, id,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpDelete)
	return nil
}

// AddCategory appends a category to the active ledger. Duplicate names are
// permitted and never merged; a category is always additive.
func (s *LedgerService) AddCategory(ctx context.Context, name, icon, color string) (core.Category, error) {
	l, ok := s.store.Active()
	if !ok {
		return core.Category{}, ErrNoActiveLedger
	}
	c := core.Category{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Icon:  icon,
		Color: color,
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	cats := append(append([]core.Category(nil), l.Categories...), c)
	s.store.UpdateActive(ledger.Patch{Categories: &cats})

	slog.InfoContext(ctx, "Category added",
		"category_id", c.ID,
		log.FieldCategory, c.Name,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpCreate)
	return c, nil
}

// CreateLedger adds a new account book seeded with defaults.
func (s *LedgerService) CreateLedger(ctx context.Context, name, icon string) (core.Ledger, error) {
	l, err := s.store.CreateLedger(name, icon)
	if err != nil {
		return core.Ledger{}, err
	}
	slog.InfoContext(ctx, "Ledger created",
		log.FieldLedgerID, l.ID,
		"ledger_name", l.Name,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpCreate)
	return l, nil
}

// SwitchLedger moves the active pointer; unknown ids are a no-op.
func (s *LedgerService) SwitchLedger(ctx context.Context, id string) {
	s.store.SetActive(id)
	slog.InfoContext(ctx, "Active ledger switched",
		log.FieldLedgerID, id,
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpUpdate)
}

// Ledgers returns every ledger plus the active id.
func (s *LedgerService) Ledgers(context.Context) ([]core.Ledger, string) {
	return s.store.Ledgers(), s.store.ActiveID()
}

// Active returns the active ledger.
func (s *LedgerService) Active(context.Context) (core.Ledger, bool) {
	return s.store.Active()
}

// Summary computes income/expense totals over the active ledger.
func (s *LedgerService) Summary(context.Context) core.TotalsSummary {
	l, _ := s.store.Active()
	return core.Totals(l.Transactions)
}

// Breakdown computes the expense-by-category view of the active ledger.
func (s *LedgerService) Breakdown(context.Context) []core.CategoryAmount {
	l, _ := s.store.Active()
	return core.CategoryBreakdown(l.Transactions)
}

// History returns the active ledger's transactions filtered by the criteria,
// input order preserved.
func (s *LedgerService) History(_ context.Context, c core.Criteria) []core.Transaction {
	l, _ := s.store.Active()
	return core.Filter(l.Transactions, c)
}

// Revision exposes the store revision for cache keying.
func (s *LedgerService) Revision() uint64 {
	return s.store.Revision()
}
