package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over holder balance chains.
type LedgerReader interface {
	// FindLatestEntryForHolder returns the newest entry by sequence for a
	// holder, or ErrNotFound for an empty chain.
	FindLatestEntryForHolder(ctx context.Context, holderID string) (*domain.LedgerEntry, error)

	// ListEntriesForHolder retrieves a paginated page of a holder's entries,
	// newest first, using token-based pagination.
	ListEntriesForHolder(ctx context.Context, holderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListChainForHolder retrieves a holder's complete chain in insertion
	// order, oldest first.
	ListChainForHolder(ctx context.Context, holderID string) ([]domain.LedgerEntry, error)

	// FindEntriesByReference retrieves the entries produced by a given
	// originating record.
	FindEntriesByReference(ctx context.Context, ref domain.Reference) ([]domain.LedgerEntry, error)
}

// LedgerWriter defines the in-transaction primitives chain mutations are
// built on. Callers must hold the affected holders' row locks (see
// HolderLocker) before invoking any of these.
type LedgerWriter interface {
	// NextSequence allocates the next global insertion sequence number.
	NextSequence(ctx context.Context, tx pgx.Tx) (int64, error)

	// LatestBalanceInTx returns the holder's current balance inside tx,
	// decimal.Zero for an empty chain.
	LatestBalanceInTx(ctx context.Context, tx pgx.Tx, holderID string) (decimal.Decimal, error)

	// ListChainForHolderInTx retrieves the complete chain inside tx,
	// oldest first.
	ListChainForHolderInTx(ctx context.Context, tx pgx.Tx, holderID string) ([]domain.LedgerEntry, error)

	// InsertEntriesInTx inserts entries with their explicit sequences.
	InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error

	// UpdateEntryBalancesInTx batch-updates previous/new balances of
	// existing entries after a recomputation walk.
	UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error

	// ReplaceReferenceEntriesInTx atomically removes the entries tied to a
	// reference and inserts the replacements at their carried sequences.
	// It returns the removed entries. A nil or empty newEntries performs a
	// plain removal (transfer delete).
	ReplaceReferenceEntriesInTx(ctx context.Context, tx pgx.Tx, ref domain.Reference, newEntries []domain.LedgerEntry) ([]domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
