// Package editor validates and normalizes user input into transaction
// records.
package editor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"familyledger/internal/core"
)

// Form holds the raw field values of a transaction submission.
type Form struct {
	Amount      string
	Type        core.TransactionType
	Category    string
	Description string
	MemberID    string
}

// Build validates the form and produces a transaction.
//
// On create (existing == nil) a fresh id is assigned and the date stamped
// with the current time. On update the existing id and date are preserved
// verbatim and every other field comes from the form; edits never change
// when a transaction nominally occurred.
//
// MemberName is resolved against members at build time; an unresolved id
// degrades to the unknown-member label instead of failing.
func Build(f Form, existing *core.Transaction, members []core.FamilyMember) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(f.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := f.Type.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t := core.Transaction{
		Amount:      core.Money{Cents: cents},
		Type:        f.Type,
		Category:    strings.TrimSpace(f.Category),
		Description: strings.TrimSpace(f.Description),
		MemberID:    f.MemberID,
		MemberName:  memberName(f.MemberID, members),
	}
	if existing != nil {
		t.ID = existing.ID
		t.Date = existing.Date
	} else {
		t.ID = uuid.NewString()
		t.Date = time.Now()
	}
	return t, nil
}

func memberName(id string, members []core.FamilyMember) string {
	for _, m := range members {
		if m.ID == id {
			return m.Name
		}
	}
	return core.UnknownMemberName
}
