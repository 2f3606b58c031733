package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	"github.com/alfurqan-institute/cashfloat_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(pool *pgxpool.Pool) portsrepo.TransferRepositoryWithTx {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransferRepository implements portsrepo.TransferRepositoryWithTx
var _ portsrepo.TransferRepositoryWithTx = (*PgxTransferRepository)(nil)

const transferColumns = `transfer_id, sender_id, receiver_id, amount, transfer_date, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanTransfer(row pgx.Row) (domain.CashTransfer, error) {
	var t domain.CashTransfer
	err := row.Scan(
		&t.TransferID,
		&t.SenderID,
		&t.ReceiverID,
		&t.Amount,
		&t.Date,
		&t.Notes,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.CashTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_id = $1;`
	transfer, err := scanTransfer(r.Pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transfer " + transferID + " not found")
		}
		return nil, fmt.Errorf("failed to find transfer by ID %s: %w", transferID, err)
	}
	return &transfer, nil
}

func (r *PgxTransferRepository) ListTransfers(ctx context.Context, limit int, nextToken *string) ([]domain.CashTransfer, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + transferColumns + ` FROM transfers`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeTimeIDToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` WHERE (created_at, transfer_id) < ($1, $2)`
		args = append(args, createdAt, id)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, transfer_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.CashTransfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transfer row: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transfer rows: %w", err)
	}

	var newNextToken *string
	if len(transfers) > limit {
		transfers = transfers[:limit]
		last := transfers[len(transfers)-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.TransferID)
		newNextToken = &token
	}
	return transfers, newNextToken, nil
}

func (r *PgxTransferRepository) FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.CashTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE transfer_id = $1 FOR UPDATE;`
	transfer, err := scanTransfer(tx.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transfer " + transferID + " not found")
		}
		if isLockConflict(err) {
			return nil, fmt.Errorf("%w: transfer lock lost to a concurrent operation", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to lock transfer %s: %w", transferID, err)
	}
	return &transfer, nil
}

func (r *PgxTransferRepository) InsertTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error {
	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		transfer.TransferID,
		transfer.SenderID,
		transfer.ReceiverID,
		transfer.Amount,
		transfer.Date,
		transfer.Notes,
		transfer.CreatedAt,
		transfer.CreatedBy,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transfer %s already exists", apperrors.ErrDuplicate, transfer.TransferID)
		}
		return fmt.Errorf("failed to insert transfer %s: %w", transfer.TransferID, err)
	}
	return nil
}

func (r *PgxTransferRepository) UpdateTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error {
	query := `
		UPDATE transfers
		SET sender_id = $2, receiver_id = $3, amount = $4, transfer_date = $5, notes = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE transfer_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		transfer.TransferID,
		transfer.SenderID,
		transfer.ReceiverID,
		transfer.Amount,
		transfer.Date,
		transfer.Notes,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update transfer %s: %w", transfer.TransferID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transfer " + transfer.TransferID + " not found")
	}
	return nil
}

func (r *PgxTransferRepository) DeleteTransferInTx(ctx context.Context, tx pgx.Tx, transferID string) error {
	tag, err := tx.Exec(ctx, `DELETE FROM transfers WHERE transfer_id = $1;`, transferID)
	if err != nil {
		return fmt.Errorf("failed to delete transfer %s: %w", transferID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transfer " + transferID + " not found")
	}
	return nil
}
