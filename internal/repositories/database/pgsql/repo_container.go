package pgsql

import (
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		HolderRepo:   newPgxHolderRepository(dbPool),
		LedgerRepo:   newPgxLedgerRepository(dbPool),
		TransferRepo: newPgxTransferRepository(dbPool),
		IncomeRepo:   newPgxIncomeRepository(dbPool),
		ExpenseRepo:  newPgxExpenseRepository(dbPool),
		AuditRepo:    newPgxAuditRepository(dbPool),
	}
}
