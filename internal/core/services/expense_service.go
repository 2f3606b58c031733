package services

import (
	"context"
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

// expenseService implements the expense workflow. Only the approval of an
// institute-float expense touches the ledger; reimbursement transitions are
// bookkeeping closures on the expense record itself.
type expenseService struct {
	expenseRepo    portsrepo.ExpenseRepositoryWithTx
	ledgerRepo     portsrepo.LedgerRepositoryFacade
	holderRepo     portsrepo.HolderRepositoryFacade
	auditRepo      portsrepo.AuditRepositoryFacade
	publisher      portssvc.EventPublisher
	forbidNegative bool
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(expenseRepo portsrepo.ExpenseRepositoryWithTx, ledgerRepo portsrepo.LedgerRepositoryFacade, holderRepo portsrepo.HolderRepositoryFacade, auditRepo portsrepo.AuditRepositoryFacade, publisher portssvc.EventPublisher, forbidNegative bool) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo:    expenseRepo,
		ledgerRepo:     ledgerRepo,
		holderRepo:     holderRepo,
		auditRepo:      auditRepo,
		publisher:      publisher,
		forbidNegative: forbidNegative,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// CreateExpense records outgoing money in PENDING approval status.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}
	switch req.PaidFrom {
	case domain.PaidFromInstituteFloat:
		if req.FloatHolderID == nil {
			return nil, fmt.Errorf("%w: floatHolderID is required for institute float expenses", apperrors.ErrValidation)
		}
		holder, err := s.holderRepo.FindHolderByID(ctx, *req.FloatHolderID)
		if err != nil {
			return nil, err
		}
		if !holder.IsActive {
			return nil, fmt.Errorf("%w: holder %s is retired", apperrors.ErrValidation, holder.HolderID)
		}
	case domain.PaidFromPersonalMoney:
		if req.FloatHolderID != nil {
			return nil, fmt.Errorf("%w: floatHolderID is only valid for institute float expenses", apperrors.ErrValidation)
		}
	default:
		return nil, fmt.Errorf("%w: unknown paidFrom '%s'", apperrors.ErrValidation, req.PaidFrom)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:     uuid.NewString(),
		Description:   req.Description,
		Amount:        req.Amount,
		Date:          req.Date,
		PaidFrom:      req.PaidFrom,
		FloatHolderID: req.FloatHolderID,
		Approval:      domain.ApprovalPending,
		Reimbursement: domain.ReimbursementPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.expenseRepo.Rollback(ctx, tx)

	if err := s.expenseRepo.InsertExpenseInTx(ctx, tx, expense); err != nil {
		return nil, err
	}
	audit := newAuditEntry(creatorID, domain.ActionCreate, domain.EntityExpense, expense.ExpenseID, nil, snapshot(expense), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Expense created",
		slog.String("expense_id", expense.ExpenseID),
		slog.String("paid_from", string(expense.PaidFrom)),
		slog.String("amount", expense.Amount.String()))
	return &expense, nil
}

// GetExpenseByID retrieves an expense record by its unique identifier.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpenses retrieves a paginated list of expenses, newest first.
func (s *expenseService) ListExpenses(ctx context.Context, params dto.ListExpensesParams) (*dto.ListExpensesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	expenses, nextToken, err := s.expenseRepo.ListExpenses(ctx, params.Approval, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve expenses: %w", err)
	}

	res := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = dto.ToExpenseResponse(&expenses[i])
	}
	return &dto.ListExpensesResponse{Expenses: res, NextToken: nextToken}, nil
}

// ApproveExpense moves a pending expense to APPROVED. An institute-float
// expense debits the float holder's chain in the same transaction; a
// personal-money expense only opens the reimbursement axis.
func (s *expenseService) ApproveExpense(ctx context.Context, expenseID string, approverID string) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.expenseRepo.Rollback(ctx, tx)

	expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, tx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Approval != domain.ApprovalPending {
		return nil, fmt.Errorf("%w: expense %s is %s, only PENDING expenses can be approved",
			apperrors.ErrInvalidTransition, expenseID, expense.Approval)
	}
	before := *expense

	var entry *domain.LedgerEntry
	if expense.PaidFrom == domain.PaidFromInstituteFloat {
		holderID := *expense.FloatHolderID
		if _, err := s.holderRepo.FindHoldersByIDsForUpdate(ctx, tx, []string{holderID}); err != nil {
			return nil, err
		}
		balance, err := s.ledgerRepo.LatestBalanceInTx(ctx, tx, holderID)
		if err != nil {
			return nil, err
		}
		if s.forbidNegative && balance.LessThan(expense.Amount) {
			return nil, fmt.Errorf("%w: debit of %s exceeds balance %s", apperrors.ErrValidation, expense.Amount.String(), balance.String())
		}
		seq, err := s.ledgerRepo.NextSequence(ctx, tx)
		if err != nil {
			return nil, err
		}
		newBalance, err := ledgerchain.Apply(balance, domain.Debit, expense.Amount)
		if err != nil {
			return nil, err
		}
		e := domain.LedgerEntry{
			EntryID:         uuid.NewString(),
			HolderID:        holderID,
			Sequence:        seq,
			Kind:            domain.Debit,
			Amount:          expense.Amount,
			PreviousBalance: balance,
			NewBalance:      newBalance,
			Reference:       domain.Reference{Kind: domain.RefExpense, ReferenceID: &expense.ExpenseID},
			Description:     fmt.Sprintf("Expense: %s", expense.Description),
			EntryDate:       expense.Date,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     approverID,
				LastUpdatedAt: now,
				LastUpdatedBy: approverID,
			},
		}
		if err := s.ledgerRepo.InsertEntriesInTx(ctx, tx, []domain.LedgerEntry{e}); err != nil {
			return nil, err
		}
		entry = &e
	}

	expense.Approval = domain.ApprovalApproved
	expense.ApproverID = &approverID
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = approverID
	if err := s.expenseRepo.UpdateExpenseInTx(ctx, tx, *expense); err != nil {
		return nil, err
	}

	audit := newAuditEntry(approverID, domain.ActionApprove, domain.EntityExpense, expenseID, snapshot(before), snapshot(*expense), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Expense approved",
		slog.String("expense_id", expenseID),
		slog.Bool("ledger_posted", entry != nil))

	if entry != nil {
		publishBalanceChanges(ctx, s.publisher, map[string]decimal.Decimal{entry.HolderID: entry.NewBalance}, now)
	}
	return expense, nil
}

// RejectExpense moves a pending expense to REJECTED. Never touches the ledger.
func (s *expenseService) RejectExpense(ctx context.Context, expenseID string, approverID string) (*domain.Expense, error) {
	return s.transition(ctx, expenseID, approverID, domain.ActionReject,
		func(e *domain.Expense) error {
			if e.Approval != domain.ApprovalPending {
				return fmt.Errorf("%w: expense %s is %s, only PENDING expenses can be rejected",
					apperrors.ErrInvalidTransition, expenseID, e.Approval)
			}
			e.Approval = domain.ApprovalRejected
			e.ApproverID = &approverID
			return nil
		})
}

// ReimburseExpense marks an approved expense as reimbursed. The approval
// debit already moved the money; this only closes the record.
func (s *expenseService) ReimburseExpense(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, expenseID, actorID, domain.ActionReimburse,
		func(e *domain.Expense) error {
			if err := reimbursementOpen(e, expenseID); err != nil {
				return err
			}
			e.Reimbursement = domain.ReimbursementReimbursed
			return nil
		})
}

// CancelReimbursement closes an approved expense without paying anyone
// back, for costs absorbed by the person who fronted them.
func (s *expenseService) CancelReimbursement(ctx context.Context, expenseID string, actorID string) (*domain.Expense, error) {
	return s.transition(ctx, expenseID, actorID, domain.ActionCancel,
		func(e *domain.Expense) error {
			if err := reimbursementOpen(e, expenseID); err != nil {
				return err
			}
			e.Reimbursement = domain.ReimbursementCancelled
			return nil
		})
}

func reimbursementOpen(e *domain.Expense, expenseID string) error {
	if e.Approval != domain.ApprovalApproved {
		return fmt.Errorf("%w: expense %s is %s, reimbursement applies to APPROVED expenses only",
			apperrors.ErrInvalidTransition, expenseID, e.Approval)
	}
	if e.Reimbursement != domain.ReimbursementPending {
		return fmt.Errorf("%w: expense %s reimbursement is already %s",
			apperrors.ErrInvalidTransition, expenseID, e.Reimbursement)
	}
	return nil
}

// transition applies a ledger-free status change under the expense row lock.
func (s *expenseService) transition(ctx context.Context, expenseID string, actorID string, action domain.AuditAction, mutate func(*domain.Expense) error) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()

	tx, err := s.expenseRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.expenseRepo.Rollback(ctx, tx)

	expense, err := s.expenseRepo.FindExpenseByIDForUpdate(ctx, tx, expenseID)
	if err != nil {
		return nil, err
	}
	before := *expense

	if err := mutate(expense); err != nil {
		return nil, err
	}
	expense.LastUpdatedAt = now
	expense.LastUpdatedBy = actorID
	if err := s.expenseRepo.UpdateExpenseInTx(ctx, tx, *expense); err != nil {
		return nil, err
	}

	audit := newAuditEntry(actorID, action, domain.EntityExpense, expenseID, snapshot(before), snapshot(*expense), now)
	if err := s.auditRepo.InsertAuditEntryInTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := s.expenseRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("Expense status changed",
		slog.String("expense_id", expenseID),
		slog.String("action", string(action)))
	return expense, nil
}
