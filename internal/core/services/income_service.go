package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
	"github.com/alfurqan-institute/cashfloat_backend/internal/utils/ledgerchain"
)

// incomeService implements the income approval workflow. A pending income
// has no ledger effect; confirmation posts exactly one credit entry when
// the income names a holding staff member.
type incomeService struct {
	incomeRepo portsrepo.IncomeRepositoryWithTx
	ledgerRepo portsrepo.LedgerRepositoryFacade
	holderRepo portsrepo.HolderRepositoryFacade
	auditRepo  portsrepo.AuditRepositoryFacade
	publisher  portssvc.EventPublisher
}

// NewIncomeService creates a new IncomeService.
func NewIncomeService(incomeRepo portsrepo.IncomeRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade, holderRepo portsrepo.HolderRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade, publisher portssvc.EventPublisher) portssvc.IncomeSvcFacade {
	return &incomeService{
		incomeRepo: incomeRepo,
		ledgerRepo: ledgerRepo,
		holderRepo: holderRepo,
		auditRepo:  auditRepo,
		publisher:  publisher,
	}
}

var _ portssvc.IncomeSvcFacade = (*incomeService)(nil)

// CreateIncome records incoming money in PENDING status.
func (s *incomeService) CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorID string) (*domain.Income, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: income amount must be positive", apperrors.ErrValidation)
	}
	if req.HeldByID != nil {
		holder, err := s.holderRepo.FindHolderByID(ctx, *req.HeldByID)
		if err != nil {
			return nil, err
		}
		if !holder.IsActive {
			return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, holder.HolderID)
		}
	}

	now := time.Now().UTC()
	income := domain.Income{
		IncomeID: uuid.NewString(),
		Source:   req.Source,
		Amount:   req.Amount,
		Date:     req.Date,
		HeldByID: req.HeldByID,
		Status:   domain.IncomePending,
		Notes:    req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	tx, err := s.incomeRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.incomeRepo.Rollback(ctx, tx)

	if err := s.incomeRepo.InsertIncomeInTx(ctx, tx, income); err != nil {
		return nil, err
	}
	audit := newAuditEntry(creatorID, domain.ActionCreate, domain.EntityIncome, income.IncomeID, nil, snapshot(income), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}
	if err := s.incomeRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Income created",
		slog.String("income_id", income.IncomeID),
		slog.String("amount", income.Amount.String()))
	return &income, nil
}

// GetIncomeByID retrieves an income record by its unique identifier.
func (s *incomeService) GetIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	return s.incomeRepo.FindIncomeByID(ctx, incomeID)
}

// ListIncomes retrieves a paginated list of incomes, newest first.
func (s *incomeService) ListIncomes(ctx context.Context, params dto.ListIncomesParams) (*dto.ListIncomesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	incomes, nextToken, err := s.incomeRepo.ListIncomes(ctx, params.Status, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve incomes: %w", err)
	}

	res := make([]dto.IncomeResponse, len(incomes))
	for i := range incomes {
		res[i] = dto.ToIncomeResponse(&incomes[i])
	}
	return &dto.ListIncomesResponse{Incomes: res, NextToken: nextToken}, nil
}

// ConfirmIncome moves a pending income to CONFIRMED and, when it names a
// holding staff member, credits their float chain. Posting proceeds even if
// the holder has since retired: the cash is physically with them and the
// ledger must say so.
func (s *incomeService) ConfirmIncome(ctx context.Context, incomeID string, approverID string) (*domain.Income, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.incomeRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.incomeRepo.Rollback(ctx, tx)

	income, err := s.incomeRepo.FindIncomeByIDForUpdate(ctx, tx, incomeID)
	if err != nil {
		return nil, err
	}
	if income.Status != domain.IncomePending {
		return nil, fmt.Errorf("%w: income %s is %s, only PENDING incomes can be confirmed",
			apperrors.ErrInvalidTransition, incomeID, income.Status)
	}
	before := *income

	var entry *domain.LedgerEntry
	if income.HeldByID != nil {
		entry, err = s.postIncomeCredit(ctx, tx, income, approverID, now)
		if err != nil {
			return nil, err
		}
	}

	income.Status = domain.IncomeConfirmed
	income.ApproverID = &approverID
	income.LastUpdatedAt = now
	income.LastUpdatedBy = approverID
	if err := s.incomeRepo.UpdateIncomeInTx(ctx, tx, *income); err != nil {
		return nil, err
	}

	audit := newAuditEntry(approverID, domain.ActionConfirm, domain.EntityIncome, incomeID, snapshot(before), snapshot(*income), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.incomeRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Income confirmed",
		slog.String("income_id", incomeID),
		slog.Bool("ledger_posted", entry != nil))

	if entry != nil {
		publishBalanceChanges(ctx, s.publisher, map[string]decimal.Decimal{entry.HolderID: entry.NewBalance}, now)
	}
	return income, nil
}

// RejectIncome moves a pending income to REJECTED. Never touches the ledger.
func (s *incomeService) RejectIncome(ctx context.Context, incomeID string, approverID string) (*domain.Income, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.incomeRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.incomeRepo.Rollback(ctx, tx)

	income, err := s.incomeRepo.FindIncomeByIDForUpdate(ctx, tx, incomeID)
	if err != nil {
		return nil, err
	}
	if income.Status != domain.IncomePending {
		return nil, fmt.Errorf("%w: income %s is %s, only PENDING incomes can be rejected",
			apperrors.ErrInvalidTransition, incomeID, income.Status)
	}
	before := *income

	income.Status = domain.IncomeRejected
	income.ApproverID = &approverID
	income.LastUpdatedAt = now
	income.LastUpdatedBy = approverID
	if err := s.incomeRepo.UpdateIncomeInTx(ctx, tx, *income); err != nil {
		return nil, err
	}

	audit := newAuditEntry(approverID, domain.ActionReject, domain.EntityIncome, incomeID, snapshot(before), snapshot(*income), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.incomeRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Income rejected", slog.String("income_id", incomeID))
	return income, nil
}

// postIncomeCredit appends the confirmation credit to the holding staff
// member's chain.
func (s *incomeService) postIncomeCredit(ctx context.Context, tx pgx.Tx, income *domain.Income, approverID string, now time.Time) (*domain.LedgerEntry, error) {
	holderID := *income.HeldByID
	if _, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, []string{holderID}); err != nil {
		return nil, err
	}

	balance, err := s.ledgerRepo.LatestBalanceInTx(ctx, tx, holderID)
	if err != nil {
		return nil, err
	}
	seq, err := s.ledgerRepo.NextSequence(ctx, tx)
	if err != nil {
		return nil, err
	}

	newBalance, err := ledgerchain.Apply(balance, domain.Credit, income.Amount)
	if err != nil {
		return nil, err
	}
	incomeID := income.IncomeID
	entry := domain.LedgerEntry{
		EntryID:         uuid.NewString(),
		HolderID:        holderID,
		Sequence:        seq,
		Kind:            domain.Credit,
		Amount:          income.Amount,
		PreviousBalance: balance,
		NewBalance:      newBalance,
		Reference:       domain.Reference{Kind: domain.RefIncome, ReferenceID: &incomeID},
		Description:     fmt.Sprintf("Income from %s", income.Source),
		EntryDate:       income.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     approverID,
			LastUpdatedAt: now,
			LastUpdatedBy: approverID,
		},
	}
	if err := s.ledgerRepo.InsertEntriesInTx(ctx, tx, []domain.LedgerEntry{entry}); err != nil {
		return nil, err
	}
	return &entry, nil
}
