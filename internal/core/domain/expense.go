package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApprovalStatus is the first status axis of an expense.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ReimbursementStatus is the second status axis, meaningful only once the
// expense is approved. Reimbursement is a bookkeeping closure; it does not
// post a ledger entry (the approval debit already represents the outflow).
type ReimbursementStatus string

const (
	ReimbursementPending    ReimbursementStatus = "PENDING"
	ReimbursementReimbursed ReimbursementStatus = "REIMBURSED"
	ReimbursementCancelled  ReimbursementStatus = "CANCELLED"
)

// PaidFrom says whose money covered the expense at the time it was incurred.
type PaidFrom string

const (
	PaidFromInstituteFloat PaidFrom = "INSTITUTE_FLOAT"
	PaidFromPersonalMoney  PaidFrom = "PERSONAL_MONEY"
)

// Expense is a money-out record. Approving an expense paid from institute
// float posts one debit ledger entry against FloatHolderID; personal-money
// expenses never affect any float chain.
type Expense struct {
	ExpenseID     string          `json:"expenseID"` // Primary Key (UUID)
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"` // positive
	Date          time.Time       `json:"date"`
	PaidFrom      PaidFrom        `json:"paidFrom"`
	FloatHolderID *string         `json:"floatHolderID,omitempty"` // required when PaidFrom is INSTITUTE_FLOAT
	Approval      ApprovalStatus  `json:"approvalStatus"`
	Reimbursement ReimbursementStatus `json:"reimbursementStatus"`
	ApproverID    *string         `json:"approverID,omitempty"`
	AuditFields
}
