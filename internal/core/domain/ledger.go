package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind indicates whether a ledger entry adds to or deducts from a
// holder's float balance.
type EntryKind string

const (
	Credit EntryKind = "CREDIT"
	Debit  EntryKind = "DEBIT"
)

// ReferenceKind identifies which record produced a ledger entry.
type ReferenceKind string

const (
	RefTransfer ReferenceKind = "TRANSFER"
	RefIncome   ReferenceKind = "INCOME"
	RefExpense  ReferenceKind = "EXPENSE"
	RefManual   ReferenceKind = "MANUAL"
)

// Reference links a ledger entry back to the record that produced it.
// ReferenceID is nil for manual adjustments.
type Reference struct {
	Kind        ReferenceKind `json:"kind"`
	ReferenceID *string       `json:"referenceID,omitempty"`
}

// LedgerEntry is one atomic balance-changing record in a holder's
// append-only history.
//
// Sequence is the insertion order of the entry, assigned by storage. The
// chain invariant is defined over Sequence order, not EntryDate: the first
// entry's PreviousBalance is zero and every later entry's PreviousBalance
// equals the prior entry's NewBalance.
type LedgerEntry struct {
	EntryID         string          `json:"entryID"` // Primary Key (UUID)
	HolderID        string          `json:"holderID"`
	Sequence        int64           `json:"sequence"`
	Kind            EntryKind       `json:"kind"`
	Amount          decimal.Decimal `json:"amount"` // always positive
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	NewBalance      decimal.Decimal `json:"newBalance"`
	Reference       Reference       `json:"reference"`
	Description     string          `json:"description"`
	EntryDate       time.Time       `json:"entryDate"` // business date, informational only
	AuditFields
}
