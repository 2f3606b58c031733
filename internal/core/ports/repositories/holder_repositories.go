package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// HolderReader defines read operations for holder data.
type HolderReader interface {
	// FindHolderByID retrieves a holder by its unique identifier.
	FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error)

	// FindHolderByUsername retrieves a holder by login username.
	FindHolderByUsername(ctx context.Context, username string) (*domain.Holder, error)

	// ListHolders retrieves holders ordered by name.
	ListHolders(ctx context.Context, limit int, offset int) ([]domain.Holder, error)
}

// HolderWriter defines write operations for holder data.
type HolderWriter interface {
	// SaveHolder inserts a new holder.
	SaveHolder(ctx context.Context, holder domain.Holder) error

	// UpdateHolder updates mutable holder fields (name, role, active flag).
	UpdateHolder(ctx context.Context, holder domain.Holder) error
}

// HolderLocker provides per-holder mutual exclusion for chain mutations.
type HolderLocker interface {
	// FindHoldersByIDsForUpdate retrieves holders by IDs and locks their rows
	// for the duration of the transaction. Rows are locked in ascending
	// holder id order so two transfers between the same pair cannot deadlock.
	// Returns ErrNotFound if any id is missing.
	FindHoldersByIDsForUpdate(ctx context.Context, tx pgx.Tx, holderIDs []string) (map[string]domain.Holder, error)
}

// HolderRepositoryFacade combines all holder-related repository interfaces.
type HolderRepositoryFacade interface {
	HolderReader
	HolderWriter
	HolderLocker
}

// HolderRepositoryWithTx extends HolderRepositoryFacade with transaction capabilities.
type HolderRepositoryWithTx interface {
	HolderRepositoryFacade
	TransactionManager
}
