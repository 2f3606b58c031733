package services

import (
	"context"
	"fmt"

	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// auditService exposes the audit trail to reporting screens. It is
// read-only; the mutating services append entries inside their own
// transactions.
type auditService struct {
	auditRepo portsrepo.AuditRepositoryFacade
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo portsrepo.AuditRepositoryFacade) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// ListAuditEntries retrieves a filtered page of audit entries, newest first.
func (s *auditService) ListAuditEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	filter := portsrepo.AuditFilter{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		ActorID:    params.ActorID,
	}
	entries, nextToken, err := s.auditRepo.ListAuditEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve audit entries: %w", err)
	}

	res := make([]dto.AuditEntryResponse, len(entries))
	for i := range entries {
		res[i] = dto.ToAuditEntryResponse(&entries[i])
	}
	return &dto.ListAuditResponse{Entries: res, NextToken: nextToken}, nil
}
