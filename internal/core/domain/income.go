package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeStatus is the approval state of an income record.
// PENDING is the only non-terminal state; there is no transition out of
// CONFIRMED or REJECTED.
type IncomeStatus string

const (
	IncomePending   IncomeStatus = "PENDING"
	IncomeConfirmed IncomeStatus = "CONFIRMED"
	IncomeRejected  IncomeStatus = "REJECTED"
)

// Income is a money-in record. Confirmation posts exactly one credit ledger
// entry to HeldByID when set; an income without a holding staff member is a
// financial record only and never touches any float chain.
type Income struct {
	IncomeID   string          `json:"incomeID"` // Primary Key (UUID)
	Source     string          `json:"source"`   // payer / origin, free text
	Amount     decimal.Decimal `json:"amount"`   // positive
	Date       time.Time       `json:"date"`
	HeldByID   *string         `json:"heldByID,omitempty"` // holder keeping the cash, optional
	Status     IncomeStatus    `json:"status"`
	ApproverID *string         `json:"approverID,omitempty"` // who confirmed/rejected
	Notes      string          `json:"notes"`
	AuditFields
}
