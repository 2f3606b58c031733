package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
	"github.com/alfurqan-institute/cashfloat_backend/internal/utils/ledgerchain"
)

// ledgerService exposes per-holder balance chains. The chain itself is the
// single source of truth: no mutable balance column exists anywhere, so a
// balance read is always the newest entry's new_balance.
type ledgerService struct {
	ledgerRepo     portsrepo.LedgerRepositoryWithTx
	holderRepo     portsrepo.HolderRepositoryWithTx
	auditRepo      portsrepo.AuditRepositoryFacade
	publisher      portssvc.EventPublisher
	forbidNegative bool
}

// NewLedgerService creates a new LedgerService. forbidNegative blocks debits
// that would take a holder's float below zero; the baseline deployment
// allows negative float pending reimbursement.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx, holderRepo portsrepo.HolderRepositoryWithTx, auditRepo portsrepo.AuditRepositoryFacade, publisher portssvc.EventPublisher, forbidNegative bool) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:     ledgerRepo,
		holderRepo:     holderRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
		forbidNegative: forbidNegative,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetBalance returns the holder's current float balance.
func (s *ledgerService) GetBalance(ctx context.Context, holderID string) (decimal.Decimal, error) {
	if _, err := s.holderRepo.FindHolderByID(ctx, holderID); err != nil {
		return decimal.Zero, err
	}

	latest, err := s.ledgerRepo.FindLatestEntryForHolder(ctx, holderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, nil // empty chain
		}
		return decimal.Zero, err
	}
	return latest.NewBalance, nil
}

// GetLedgerHistory returns a page of the holder's entries, newest first.
func (s *ledgerService) GetLedgerHistory(ctx context.Context, holderID string, params dto.LedgerHistoryParams) (*dto.LedgerHistoryResponse, error) {
	if _, err := s.holderRepo.FindHolderByID(ctx, holderID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesForHolder(ctx, holderID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger history: %w", err)
	}

	return &dto.LedgerHistoryResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// CreateManualAdjustment appends a MANUAL-reference entry to a holder's
// chain, for float corrections outside the transfer/income/expense flows.
func (s *ledgerService) CreateManualAdjustment(ctx context.Context, holderID string, req dto.CreateAdjustmentRequest, actorID string) (*domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: adjustment amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	holders, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, []string{holderID})
	if err != nil {
		return nil, err
	}
	if !holders[holderID].IsActive {
		return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, holderID)
	}

	balance, err := s.ledgerRepo.LatestBalanceInTx(ctx, tx, holderID)
	if err != nil {
		return nil, err
	}
	newBalance, err := ledgerchain.Apply(balance, req.Kind, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if s.forbidNegative && newBalance.IsNegative() {
		return nil, fmt.Errorf("%w: debit of %s exceeds balance %s", apperrors.ErrValidation, req.Amount.String(), balance.String())
	}

	seq, err := s.ledgerRepo.NextSequence(ctx, tx)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		HolderID:        holderID,
		Sequence:        seq,
		Kind:            req.Kind,
		Amount:          req.Amount,
		PreviousBalance: balance,
		NewBalance:      newBalance,
		Reference:       domain.Reference{Kind: domain.RefManual},
		Description:     req.Description,
		EntryDate:       req.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.ledgerRepo.InsertEntriesInTx(ctx, tx, []domain.LedgerEntry{entry}); err != nil {
		return nil, err
	}

	audit := newAuditEntry(actorID, domain.ActionCreate, domain.EntityLedger, entry.EntryID, nil, snapshot(entry), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Manual adjustment posted",
		slog.String("holder_id", holderID),
		slog.String("entry_id", entry.EntryID),
		slog.String("new_balance", entry.NewBalance.String()))

	publishBalanceChanges(ctx, s.publisher, map[string]decimal.Decimal{holderID: newBalance}, now)
	return &entry, nil
}

// VerifyChain recomputes a holder's full chain and reports the first
// violation of the chain invariant, if any. Read-only; intended for ops
// screens after suspected data issues.
func (s *ledgerService) VerifyChain(ctx context.Context, holderID string) (*dto.ChainVerificationResponse, error) {
	if _, err := s.holderRepo.FindHolderByID(ctx, holderID); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListChainForHolder(ctx, holderID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChainVerificationResponse{
		HolderID:   holderID,
		EntryCount: len(entries),
		Valid:      true,
	}
	if err := ledgerchain.Validate(entries); err != nil {
		resp.Valid = false
		resp.Problem = err.Error()
	}
	return resp, nil
}
