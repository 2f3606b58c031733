package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// ExpenseSvcFacade defines the expense workflow's two status axes:
// approval (PENDING → APPROVED | REJECTED) and, once approved,
// reimbursement (PENDING → REIMBURSED | CANCELLED).
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorID string) (*domain.Expense, error)
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error)

	// ApproveExpense approves a pending expense and, when it was paid from
	// institute float, posts one debit entry against the float holder.
	ApproveExpense(ctx context.Context, expenseID string, approverID string) (*domain.Expense, error)

	// RejectExpense rejects a pending expense. Never touches the ledger.
	RejectExpense(ctx context.Context, expenseID string, approverID string) (*domain.Expense, error)

	// ReimburseExpense marks an approved expense as reimbursed. This is a
	// bookkeeping closure only; no ledger entry is posted.
	ReimburseExpense(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error)

	// CancelReimbursement closes an approved expense without reimbursement.
	CancelReimbursement(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error)
}
