package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade exposes the per-holder balance chain.
type LedgerSvcFacade interface {
	// GetBalance returns a holder's current balance: the new balance of the
	// newest ledger entry, or zero for an empty chain.
	GetBalance(ctx context.Context, holderID string) (decimal.Decimal, error)

	// GetLedgerHistory returns a page of a holder's entries, newest first.
	GetLedgerHistory(ctx context.Context, holderID string, params dto.LedgerHistoryParams) (*dto.LedgerHistoryResponse, error)

	// CreateManualAdjustment appends a MANUAL-reference entry to a holder's
	// chain (float corrections outside transfer/income/expense flows).
	CreateManualAdjustment(ctx context.Context, holderID string, req dto.CreateAdjustmentRequest, actorID string) (*domain.LedgerEntry, error)

	// VerifyChain recomputes a holder's chain and reports the first
	// violation of the chain invariant, if any.
	VerifyChain(ctx context.Context, holderID string) (*dto.ChainVerificationResponse, error)
}
