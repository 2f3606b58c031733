package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExpenseReader defines read operations for expense records.
type ExpenseReader interface {
	// FindExpenseByID retrieves an expense record by its unique identifier.
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)

	// ListExpenses retrieves a paginated list of expenses, newest first,
	// optionally filtered by approval status.
	ListExpenses(ctx context.Context, approval *domain.ApprovalStatus, limit int, nextToken *string) ([]domain.Expense, *string, error)
}

// ExpenseWriter defines write operations for expense records.
type ExpenseWriter interface {
	// FindExpenseByIDForUpdate retrieves an expense and locks its row so
	// concurrent transitions of the same record serialize.
	FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error)

	// InsertExpenseInTx inserts a new expense record.
	InsertExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error

	// UpdateExpenseInTx updates an expense record (status transitions).
	UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error
}

// ExpenseRepositoryFacade combines all expense repository interfaces.
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}

// ExpenseRepositoryWithTx extends ExpenseRepositoryFacade with transaction capabilities.
type ExpenseRepositoryWithTx interface {
	ExpenseRepositoryFacade
	TransactionManager
}
