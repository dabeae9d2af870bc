// Package ledger holds the in-memory multi-ledger store. Exactly one ledger
// is active at a time; UpdateActive is the sole write path for transaction,
// category and member mutation.
package ledger

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"familyledger/internal/core"
)

// Patch carries the fields to merge into the active ledger. Nil fields are
// left untouched; a non-nil slice pointer replaces the whole collection
// (full-collection replace-on-write).
type Patch struct {
	Name         *string
	Icon         *string
	Description  *string
	Members      *[]core.FamilyMember
	Categories   *[]core.Category
	Transactions *[]core.Transaction
}

// Store owns every ledger of the session plus the active pointer. All state
// dies with the process; there is no persistence layer.
type Store struct {
	mu       sync.Mutex
	ledgers  []*core.Ledger
	activeID string
	revision uint64

	seedCategories []core.Category
}

// New returns an empty store. CreateLedger seeds each new ledger's category
// set from cats (the default set when cats is nil).
func New(cats []core.Category) *Store {
	if len(cats) == 0 {
		cats = DefaultCategories()
	}
	return &Store{seedCategories: cats}
}

// NewSeeded returns a store holding the session-start ledger with the
// default members, categories and sample transactions, already active.
func NewSeeded() *Store {
	return NewSeededWith(nil)
}

// NewSeededWith is NewSeeded with cats replacing the default category set
// when non-empty.
func NewSeededWith(cats []core.Category) *Store {
	s := New(cats)
	l := seedLedger()
	if len(cats) > 0 {
		l.Categories = append([]core.Category(nil), cats...)
	}
	s.ledgers = append(s.ledgers, &l)
	s.activeID = l.ID
	return s
}

// CreateLedger adds a new empty ledger seeded with the default category set
// and a single default member. The first ledger of a session becomes active;
// later ones never steal the active pointer.
func (s *Store) CreateLedger(name, icon string) (core.Ledger, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.Ledger{}, core.ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l := &core.Ledger{
		ID:         uuid.NewString(),
		Name:       name,
		Icon:       icon,
		Members:    []core.FamilyMember{defaultMember()},
		Categories: append([]core.Category(nil), s.seedCategories...),
	}
	s.ledgers = append(s.ledgers, l)
	if s.activeID == "" {
		s.activeID = l.ID
	}
	s.revision++
	return l.Clone(), nil
}

// SetActive switches the active pointer. Unknown ids are a silent no-op and
// no ledger data is touched either way.
func (s *Store) SetActive(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.ledgers {
		if l.ID == id {
			s.activeID = id
			return
		}
	}
}

// UpdateActive merges the patch into the currently active ledger only.
func (s *Store) UpdateActive(p Patch) (core.Ledger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.activeLocked()
	if l == nil {
		return core.Ledger{}, false
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Icon != nil {
		l.Icon = *p.Icon
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Members != nil {
		l.Members = append([]core.FamilyMember(nil), (*p.Members)...)
	}
	if p.Categories != nil {
		l.Categories = append([]core.Category(nil), (*p.Categories)...)
	}
	if p.Transactions != nil {
		l.Transactions = append([]core.Transaction(nil), (*p.Transactions)...)
	}
	s.revision++
	return l.Clone(), true
}

// Active returns a copy of the active ledger.
func (s *Store) Active() (core.Ledger, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l := s.activeLocked(); l != nil {
		return l.Clone(), true
	}
	return core.Ledger{}, false
}

// ActiveID returns the id of the active ledger, or "".
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Ledgers returns copies of every ledger in creation order.
func (s *Store) Ledgers() []core.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Ledger, 0, len(s.ledgers))
	for _, l := range s.ledgers {
		out = append(out, l.Clone())
	}
	return out
}

// Revision increments on every mutation; callers use it to key caches of
// derived views so stale entries can never be served.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *Store) activeLocked() *core.Ledger {
	for _, l := range s.ledgers {
		if l.ID == s.activeID {
			return l
		}
	}
	return nil
}
