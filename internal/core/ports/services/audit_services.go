package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// AuditSvcFacade exposes the forensic audit trail to reporting screens.
// Writes happen inside the mutating services' transactions, not here.
type AuditSvcFacade interface {
	ListAuditEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}
