package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// TransferReader defines read operations for cash transfer records.
type TransferReader interface {
	// FindTransferByID retrieves a transfer by its unique identifier.
	FindTransferByID(ctx context.Context, transferID string) (*domain.CashTransfer, error)

	// ListTransfers retrieves a paginated list of transfers, newest first,
	// using token-based pagination.
	ListTransfers(ctx context.Context, limit int, nextToken *string) ([]domain.CashTransfer, *string, error)
}

// TransferWriter defines write operations for cash transfer records. All of
// them run inside the caller's transaction so the transfer row and its two
// ledger entries commit or roll back together.
type TransferWriter interface {
	// FindTransferByIDForUpdate retrieves a transfer and locks its row.
	FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.CashTransfer, error)

	// InsertTransferInTx inserts a new transfer.
	InsertTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error

	// UpdateTransferInTx updates an existing transfer's mutable fields.
	UpdateTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error

	// DeleteTransferInTx removes a transfer row.
	DeleteTransferInTx(ctx context.Context, tx pgx.Tx, transferID string) error
}

// TransferRepositoryFacade combines all transfer repository interfaces.
type TransferRepositoryFacade interface {
	TransferReader
	TransferWriter
}

// TransferRepositoryWithTx extends TransferRepositoryFacade with transaction capabilities.
type TransferRepositoryWithTx interface {
	TransferRepositoryFacade
	TransactionManager
}
