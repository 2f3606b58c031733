package repositories

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuditFilter narrows an audit listing to one entity or actor.
type AuditFilter struct {
	EntityType *domain.AuditEntityType
	EntityID   *string
	ActorID    *string
}

// AuditReader defines read operations over the audit trail.
type AuditReader interface {
	// ListAuditEntries retrieves a paginated list of audit entries, newest
	// first, matching the filter.
	ListAuditEntries(ctx context.Context, filter AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
}

// AuditWriter defines the append-only write operation for the audit trail.
// Entries are written in the same transaction as the state change they
// record, so a failed operation never leaves a success entry behind.
type AuditWriter interface {
	// InsertAuditEntryInTx appends one audit entry.
	InsertAuditEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error
}

// AuditRepositoryFacade combines the audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
