package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// snapshot serializes an entity for an audit before/after blob. Snapshots
// are forensic only; a marshal failure degrades to a nil blob rather than
// failing the business operation.
func snapshot(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// newAuditEntry builds an audit record for one state change.
func newAuditEntry(actorID string, action domain.AuditAction, entityType domain.AuditEntityType, entityID string, before, after []byte, now time.Time) domain.AuditEntry {
	return domain.AuditEntry{
		AuditID:    uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
		OccurredAt: now,
	}
}

// publishBalanceChanges emits one balance.changed event per holder. Called
// strictly after commit; failures are logged and swallowed so the external
// notifier can never roll back a ledger mutation.
func publishBalanceChanges(ctx context.Context, publisher portssvc.EventPublisher, balances map[string]decimal.Decimal, now time.Time) {
	if publisher == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	for holderID, balance := range balances {
		event := dto.BalanceChangedEvent{
			HolderID:   holderID,
			Balance:    balance,
			OccurredAt: now,
		}
		if err := publisher.Publish(ctx, dto.TopicBalanceChanged, event); err != nil {
			logger.Warn("Failed to publish balance changed event",
				slog.String("holder_id", holderID), slog.String("error", err.Error()))
		}
	}
}
