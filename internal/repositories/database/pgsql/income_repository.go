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

type PgxIncomeRepository struct {
	BaseRepository
}

func newPgxIncomeRepository(pool *pgxpool.Pool) portsrepo.IncomeRepositoryWithTx {
	return &PgxIncomeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxIncomeRepository implements portsrepo.IncomeRepositoryWithTx
var _ portsrepo.IncomeRepositoryWithTx = (*PgxIncomeRepository)(nil)

const incomeColumns = `income_id, source, amount, income_date, held_by_id, status, approver_id, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanIncome(row pgx.Row) (domain.Income, error) {
	var in domain.Income
	err := row.Scan(
		&in.IncomeID,
		&in.Source,
		&in.Amount,
		&in.Date,
		&in.HeldByID,
		&in.Status,
		&in.ApproverID,
		&in.Notes,
		&in.CreatedAt,
		&in.CreatedBy,
		&in.LastUpdatedAt,
		&in.LastUpdatedBy,
	)
	return in, err
}

func (r *PgxIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE income_id = $1;`
	income, err := scanIncome(r.Pool.QueryRow(ctx, query, incomeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("income " + incomeID + " not found")
		}
		return nil, fmt.Errorf("failed to find income by ID %s: %w", incomeID, err)
	}
	return &income, nil
}

func (r *PgxIncomeRepository) ListIncomes(ctx context.Context, status *domain.IncomeStatus, limit int, nextToken *string) ([]domain.Income, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + incomeColumns + ` FROM incomes`
	var conditions []string
	var args []any
	if status != nil {
		args = append(args, *status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeTimeIDToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, createdAt, id)
		conditions = append(conditions, fmt.Sprintf("(created_at, income_id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, income_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	var incomes []domain.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating income rows: %w", err)
	}

	var newNextToken *string
	if len(incomes) > limit {
		incomes = incomes[:limit]
		last := incomes[len(incomes)-1]
		token := pagination.EncodeTimeIDToken(last.CreatedAt, last.IncomeID)
		newNextToken = &token
	}
	return incomes, newNextToken, nil
}

func (r *PgxIncomeRepository) FindIncomeByIDForUpdate(ctx context.Context, tx pgx.Tx, incomeID string) (*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE income_id = $1 FOR UPDATE;`
	income, err := scanIncome(tx.QueryRow(ctx, query, incomeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("income " + incomeID + " not found")
		}
		if isLockConflict(err) {
			return nil, fmt.Errorf("%w: income lock lost to a concurrent operation", apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to lock income %s: %w", incomeID, err)
	}
	return &income, nil
}

func (r *PgxIncomeRepository) InsertIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error {
	query := `
		INSERT INTO incomes (` + incomeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		income.IncomeID,
		income.Source,
		income.Amount,
		income.Date,
		income.HeldByID,
		income.Status,
		income.ApproverID,
		income.Notes,
		income.CreatedAt,
		income.CreatedBy,
		income.LastUpdatedAt,
		income.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: income %s already exists", apperrors.ErrDuplicate, income.IncomeID)
		}
		return fmt.Errorf("failed to insert income %s: %w", income.IncomeID, err)
	}
	return nil
}

func (r *PgxIncomeRepository) UpdateIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error {
	query := `
		UPDATE incomes
		SET source = $2, amount = $3, income_date = $4, held_by_id = $5, status = $6,
			approver_id = $7, notes = $8, last_updated_at = $9, last_updated_by = $10
		WHERE income_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		income.IncomeID,
		income.Source,
		income.Amount,
		income.Date,
		income.HeldByID,
		income.Status,
		income.ApproverID,
		income.Notes,
		income.LastUpdatedAt,
		income.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update income %s: %w", income.IncomeID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("income " + income.IncomeID + " not found")
	}
	return nil
}
