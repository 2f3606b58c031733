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
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository persists the append-only ledger chains. Balance
// columns on existing rows are rewritten only by UpdateEntryBalancesInTx
// during a recomputation; nothing else ever mutates an entry.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerColumns = `entry_id, holder_id, entry_seq, kind, amount, previous_balance, new_balance, reference_kind, reference_id, description, entry_date, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := row.Scan(
		&e.EntryID,
		&e.HolderID,
		&e.Sequence,
		&e.Kind,
		&e.Amount,
		&e.PreviousBalance,
		&e.NewBalance,
		&e.Reference.Kind,
		&e.Reference.ReferenceID,
		&e.Description,
		&e.EntryDate,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	return e, err
}

func scanLedgerEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}

// NextSequence allocates the next global insertion sequence number.
func (r *PgxLedgerRepository) NextSequence(ctx context.Context, tx pgx.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('ledger_entry_seq');`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate ledger sequence: %w", err)
	}
	return seq, nil
}

func (r *PgxLedgerRepository) FindLatestEntryForHolder(ctx context.Context, holderID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE holder_id = $1
		ORDER BY entry_seq DESC
		LIMIT 1;
	`
	entry, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, holderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest entry for holder %s: %w", holderID, err)
	}
	return &entry, nil
}

func (r *PgxLedgerRepository) ListEntriesForHolder(ctx context.Context, holderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE holder_id = $1
	`
	args := []any{holderID}
	if nextToken != nil && *nextToken != "" {
		seq, err := pagination.DecodeSeqToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND entry_seq < $2`
		args = append(args, seq)
	}
	query += fmt.Sprintf(` ORDER BY entry_seq DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries for holder %s: %w", holderID, err)
	}
	entries, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var newNextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeSeqToken(entries[len(entries)-1].Sequence)
		newNextToken = &token
	}
	return entries, newNextToken, nil
}

func (r *PgxLedgerRepository) ListChainForHolder(ctx context.Context, holderID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE holder_id = $1
		ORDER BY entry_seq ASC;
	`
	rows, err := r.Pool.Query(ctx, query, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chain for holder %s: %w", holderID, err)
	}
	return scanLedgerEntries(rows)
}

func (r *PgxLedgerRepository) ListChainForHolderInTx(ctx context.Context, tx pgx.Tx, holderID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE holder_id = $1
		ORDER BY entry_seq ASC;
	`
	rows, err := tx.Query(ctx, query, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chain for holder %s: %w", holderID, err)
	}
	return scanLedgerEntries(rows)
}

func (r *PgxLedgerRepository) FindEntriesByReference(ctx context.Context, ref domain.Reference) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE reference_kind = $1 AND reference_id = $2
		ORDER BY entry_seq ASC;
	`
	rows, err := r.Pool.Query(ctx, query, ref.Kind, ref.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by reference: %w", err)
	}
	return scanLedgerEntries(rows)
}

func (r *PgxLedgerRepository) LatestBalanceInTx(ctx context.Context, tx pgx.Tx, holderID string) (decimal.Decimal, error) {
	query := `
		SELECT new_balance
		FROM ledger_entries
		WHERE holder_id = $1
		ORDER BY entry_seq DESC
		LIMIT 1;
	`
	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, query, holderID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil // empty chain starts at zero
		}
		return decimal.Zero, fmt.Errorf("failed to read latest balance for holder %s: %w", holderID, err)
	}
	return balance, nil
}

const insertEntryQuery = `
	INSERT INTO ledger_entries (` + ledgerColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

func queueInsertEntry(batch *pgx.Batch, e domain.LedgerEntry) {
	batch.Queue(insertEntryQuery,
		e.EntryID,
		e.HolderID,
		e.Sequence,
		e.Kind,
		e.Amount,
		e.PreviousBalance,
		e.NewBalance,
		e.Reference.Kind,
		e.Reference.ReferenceID,
		e.Description,
		e.EntryDate,
		e.CreatedAt,
		e.CreatedBy,
		e.LastUpdatedAt,
		e.LastUpdatedBy,
	)
}

func (r *PgxLedgerRepository) InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		queueInsertEntry(batch, e)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range entries {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: ledger sequence slot already taken", apperrors.ErrConflict)
			}
			return fmt.Errorf("failed to insert ledger entries: %w", err)
		}
	}
	return nil
}

func (r *PgxLedgerRepository) UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `
		UPDATE ledger_entries
		SET previous_balance = $2, new_balance = $3
		WHERE entry_id = $1;
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(query, e.EntryID, e.PreviousBalance, e.NewBalance)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, e := range entries {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("failed to update balances for entry %s: %w", e.EntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: entry %s vanished during recomputation", apperrors.ErrConflict, e.EntryID)
		}
	}
	return nil
}

// ReplaceReferenceEntriesInTx removes all entries produced by ref and
// inserts the replacements at their carried sequences, returning the
// removed rows.
func (r *PgxLedgerRepository) ReplaceReferenceEntriesInTx(ctx context.Context, tx pgx.Tx, ref domain.Reference, newEntries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	deleteQuery := `
		DELETE FROM ledger_entries
		WHERE reference_kind = $1 AND reference_id = $2
		RETURNING ` + ledgerColumns + `;
	`
	rows, err := tx.Query(ctx, deleteQuery, ref.Kind, ref.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entries for reference: %w", err)
	}
	removed, err := scanLedgerEntries(rows)
	if err != nil {
		return nil, err
	}

	if err := r.InsertEntriesInTx(ctx, tx, newEntries); err != nil {
		return nil, err
	}
	return removed, nil
}
