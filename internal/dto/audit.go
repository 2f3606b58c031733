package dto

import (
	"encoding/json"
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
)

// AuditEntryResponse defines the data returned for one audit trail record.
// Before/After are re-exposed as raw JSON so reporting screens can render
// snapshot diffs without another decode step.
type AuditEntryResponse struct {
	AuditID    string                 `json:"auditID"`
	ActorID    string                 `json:"actorID"`
	Action     domain.AuditAction     `json:"action"`
	EntityType domain.AuditEntityType `json:"entityType"`
	EntityID   string                 `json:"entityID"`
	Before     json.RawMessage        `json:"before,omitempty"`
	After      json.RawMessage        `json:"after,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// ToAuditEntryResponse converts a domain.AuditEntry to its response DTO.
func ToAuditEntryResponse(a *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		AuditID:    a.AuditID,
		ActorID:    a.ActorID,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Before:     json.RawMessage(a.Before),
		After:      json.RawMessage(a.After),
		OccurredAt: a.OccurredAt,
	}
}

// ListAuditParams defines query parameters for listing audit entries.
type ListAuditParams struct {
	EntityType *domain.AuditEntityType `form:"entityType" binding:"omitempty,oneof=HOLDER TRANSFER INCOME EXPENSE LEDGER_ENTRY"`
	EntityID   *string                 `form:"entityID"`
	ActorID    *string                 `form:"actorID"`
	Limit      int                     `form:"limit,default=20"`
	NextToken  *string                 `form:"nextToken"`
}

// ListAuditResponse is a page of audit entries.
type ListAuditResponse struct {
	Entries   []AuditEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}
