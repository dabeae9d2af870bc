package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

// UnknownMemberName is the label substituted when a transaction's member id
// does not resolve within the owning ledger.
const UnknownMemberName = "未知"

type (
	// TransactionType carries the sign of a transaction; Amount never does.
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is one recorded income or expense event. MemberName is a
	// point-in-time snapshot: renaming a member later does not relabel
	// historical transactions.
	Transaction struct {
		ID          string
		Amount      Money
		Type        TransactionType
		Category    string // category name within the owning ledger
		Description string
		Date        time.Time
		MemberID    string
		MemberName  string
	}

	// Category is append-only per ledger; there is no delete or rename.
	Category struct {
		ID    string
		Name  string
		Icon  string
		Color string
	}

	FamilyMember struct {
		ID     string
		Name   string
		Role   string
		Avatar string
	}

	// Ledger is one isolated account book. Transactions are kept
	// most-recent-first.
	Ledger struct {
		ID           string
		Name         string
		Icon         string
		Description  string
		Members      []FamilyMember
		Categories   []Category
		Transactions []Transaction
	}
)

var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrEmptyName              = errors.New("empty name")
)

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidTransactionType
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Type.Validate()
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Member finds a family member by id.
func (l Ledger) Member(id string) (FamilyMember, bool) {
	for _, m := range l.Members {
		if m.ID == id {
			return m, true
		}
	}
	return FamilyMember{}, false
}

// CategoryIcon returns the glyph of the first category with the given name,
// or a placeholder when the name does not resolve.
func (l Ledger) CategoryIcon(name string) string {
	for _, c := range l.Categories {
		if c.Name == name {
			return c.Icon
		}
	}
	return "✨"
}

// Clone returns a deep copy so store reads never alias internal slices.
func (l Ledger) Clone() Ledger {
	out := l
	out.Members = append([]FamilyMember(nil), l.Members...)
	out.Categories = append([]Category(nil), l.Categories...)
	out.Transactions = append([]Transaction(nil), l.Transactions...)
	return out
}
