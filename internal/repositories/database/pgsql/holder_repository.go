package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxHolderRepository struct {
	BaseRepository
}

func newPgxHolderRepository(pool *pgxpool.Pool) portsrepo.HolderRepositoryWithTx {
	return &PgxHolderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxHolderRepository implements portsrepo.HolderRepositoryWithTx
var _ portsrepo.HolderRepositoryWithTx = (*PgxHolderRepository)(nil)

const holderColumns = `holder_id, name, role, username, password_hash, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanHolder(row pgx.Row) (domain.Holder, error) {
	var h domain.Holder
	err := row.Scan(
		&h.HolderID,
		&h.Name,
		&h.Role,
		&h.Username,
		&h.PasswordHash,
		&h.IsActive,
		&h.CreatedAt,
		&h.CreatedBy,
		&h.LastUpdatedAt,
		&h.LastUpdatedBy,
	)
	return h, err
}

func (r *PgxHolderRepository) SaveHolder(ctx context.Context, holder domain.Holder) error {
	query := `
		INSERT INTO holders (` + holderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		holder.HolderID,
		holder.Name,
		holder.Role,
		holder.Username,
		holder.PasswordHash,
		holder.IsActive,
		holder.CreatedAt,
		holder.CreatedBy,
		holder.LastUpdatedAt,
		holder.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username '%s' is taken", apperrors.ErrDuplicate, holder.Username)
		}
		return fmt.Errorf("failed to save holder: %w", err)
	}
	return nil
}

func (r *PgxHolderRepository) UpdateHolder(ctx context.Context, holder domain.Holder) error {
	query := `
		UPDATE holders
		SET name = $2, role = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE holder_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		holder.HolderID,
		holder.Name,
		holder.Role,
		holder.IsActive,
		holder.LastUpdatedAt,
		holder.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update holder %s: %w", holder.HolderID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("holder " + holder.HolderID + " not found")
	}
	return nil
}

func (r *PgxHolderRepository) FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error) {
	query := `SELECT ` + holderColumns + ` FROM holders WHERE holder_id = $1;`
	holder, err := scanHolder(r.Pool.QueryRow(ctx, query, holderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("holder " + holderID + " not found")
		}
		return nil, fmt.Errorf("failed to find holder by ID %s: %w", holderID, err)
	}
	return &holder, nil
}

func (r *PgxHolderRepository) FindHolderByUsername(ctx context.Context, username string) (*domain.Holder, error) {
	query := `SELECT ` + holderColumns + ` FROM holders WHERE username = $1;`
	holder, err := scanHolder(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("holder with username '" + username + "' not found")
		}
		return nil, fmt.Errorf("failed to find holder by username: %w", err)
	}
	return &holder, nil
}

func (r *PgxHolderRepository) ListHolders(ctx context.Context, limit int, offset int) ([]domain.Holder, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + holderColumns + `
		FROM holders
		ORDER BY name ASC, holder_id ASC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query holders: %w", err)
	}
	defer rows.Close()

	holders := make([]domain.Holder, 0, limit)
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holder row: %w", err)
		}
		holders = append(holders, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holder rows: %w", err)
	}
	return holders, nil
}

// FindHoldersByIDsForUpdate locks the holder rows for the duration of tx.
// The ORDER BY makes every caller acquire the locks in ascending holder id
// order regardless of the direction of the operation, which rules out
// deadlocks between concurrent mutations over the same holders.
func (r *PgxHolderRepository) FindHoldersByIDsForUpdate(ctx context.Context, tx pgx.Tx, holderIDs []string) (map[string]domain.Holder, error) {
	if len(holderIDs) == 0 {
		return map[string]domain.Holder{}, nil
	}

	query := `
		SELECT ` + holderColumns + `
		FROM holders
		WHERE holder_id = ANY($1)
		ORDER BY holder_id ASC
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, holderIDs)
	if err != nil {
		if isLockConflict(err) {
			return nil, fmt.Errorf("%w: holder lock lost to a concurrent operation", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to lock holders for update: %w", err)
	}
	defer rows.Close()

	holders := make(map[string]domain.Holder, len(holderIDs))
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked holder row: %w", err)
		}
		holders[h.HolderID] = h
	}
	if err := rows.Err(); err != nil {
		if isLockConflict(err) {
			return nil, fmt.Errorf("%w: holder lock lost to a concurrent operation", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("error iterating locked holder rows: %w", err)
	}

	for _, id := range holderIDs {
		if _, ok := holders[id]; !ok {
			return nil, apperrors.NewNotFoundError("holder " + id + " not found")
		}
	}
	return holders, nil
}
