package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// IncomeReader defines read operations for income records.
type IncomeReader interface {
	// FindIncomeByID retrieves an income record by its unique identifier.
	FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)

	// ListIncomes retrieves a paginated list of incomes, newest first,
	// optionally filtered by status.
	ListIncomes(ctx context.Context, status *domain.IncomeStatus, limit int, nextToken *string) ([]domain.Income, *string, error)
}

// IncomeWriter defines write operations for income records.
type IncomeWriter interface {
	// FindIncomeByIDForUpdate retrieves an income and locks its row so a
	// concurrent confirm/reject of the same record serializes.
	FindIncomeByIDForUpdate(ctx context.Context, tx pgx.Tx, incomeID string) (*domain.Income, error)

	// InsertIncomeInTx inserts a new income record.
	InsertIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error

	// UpdateIncomeInTx updates an income record (status transitions).
	UpdateIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error
}

// IncomeRepositoryFacade combines all income repository interfaces.
type IncomeRepositoryFacade interface {
	IncomeReader
	IncomeWriter
}

// IncomeRepositoryWithTx extends IncomeRepositoryFacade with transaction capabilities.
type IncomeRepositoryWithTx interface {
	IncomeRepositoryFacade
	TransactionManager
}
