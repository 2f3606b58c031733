package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockLedgerRepo  *MockLedgerRepository
	mockHolderRepo  *MockHolderRepository
	mockAuditRepo   *MockAuditRepository
	service         portssvc.ExpenseSvcFacade

	holderID   string
	approverID string
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.mockExpenseRepo = new(MockExpenseRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockHolderRepo = new(MockHolderRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewExpenseService(
		suite.mockExpenseRepo, suite.mockLedgerRepo, suite.mockHolderRepo, suite.mockAuditRepo, nil, false)

	suite.holderID = uuid.NewString()
	suite.approverID = uuid.NewString()
}

func (suite *ExpenseServiceTestSuite) pendingExpense(paidFrom domain.PaidFrom) *domain.Expense {
	e := &domain.Expense{
		ExpenseID:     uuid.NewString(),
		Description:   "Whiteboard markers",
		Amount:        decimal.NewFromInt(60),
		Date:          time.Now().UTC(),
		PaidFrom:      paidFrom,
		Approval:      domain.ApprovalPending,
		Reimbursement: domain.ReimbursementPending,
	}
	if paidFrom == domain.PaidFromInstituteFloat {
		e.FloatHolderID = &suite.holderID
	}
	return e
}

func (suite *ExpenseServiceTestSuite) expectTx() {
	suite.mockExpenseRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockExpenseRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *ExpenseServiceTestSuite) expectRollbackOnly() {
	suite.mockExpenseRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockExpenseRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_InstituteFloatRequiresHolder() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description: "Projector bulb",
		Amount:      decimal.NewFromInt(45),
		Date:        time.Now().UTC(),
		PaidFrom:    domain.PaidFromInstituteFloat,
	}

	expense, err := suite.service.CreateExpense(ctx, req, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(expense)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_PersonalMoneyForbidsHolder() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:   "Bus fare",
		Amount:        decimal.NewFromInt(5),
		Date:          time.Now().UTC(),
		PaidFrom:      domain.PaidFromPersonalMoney,
		FloatHolderID: &suite.holderID,
	}

	expense, err := suite.service.CreateExpense(ctx, req, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(expense)
}

func (suite *ExpenseServiceTestSuite) TestCreateExpense_StartsPendingOnBothAxes() {
	ctx := context.Background()
	req := dto.CreateExpenseRequest{
		Description:   "Cleaning supplies",
		Amount:        decimal.NewFromInt(30),
		Date:          time.Now().UTC(),
		PaidFrom:      domain.PaidFromInstituteFloat,
		FloatHolderID: &suite.holderID,
	}

	suite.mockHolderRepo.On("FindHolderByID", ctx, suite.holderID).
		Return(&domain.Holder{HolderID: suite.holderID, IsActive: true}, nil).Once()
	suite.expectTx()
	suite.mockExpenseRepo.On("InsertExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Approval == domain.ApprovalPending &&
			e.Reimbursement == domain.ReimbursementPending &&
			e.FloatHolderID != nil && *e.FloatHolderID == suite.holderID
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionCreate && a.EntityType == domain.EntityExpense
	})).Return(nil).Once()

	expense, err := suite.service.CreateExpense(ctx, req, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalPending, expense.Approval)
	suite.Equal(domain.ReimbursementPending, expense.Reimbursement)
	suite.mockExpenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_InstituteFloatPostsDebit() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromInstituteFloat)

	suite.expectTx()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, []string{suite.holderID}).
		Return(map[string]domain.Holder{suite.holderID: {HolderID: suite.holderID, IsActive: true}}, nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.holderID).
		Return(decimal.NewFromInt(200), nil).Once()
	suite.mockLedgerRepo.On("NextSequence", ctx, mock.Anything).Return(int64(5), nil).Once()
	suite.mockLedgerRepo.On("InsertEntriesInTx", ctx, mock.Anything, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 1 {
			return false
		}
		e := entries[0]
		return e.HolderID == suite.holderID &&
			e.Kind == domain.Debit &&
			e.Sequence == 5 &&
			e.Reference.Kind == domain.RefExpense &&
			e.PreviousBalance.Equal(decimal.NewFromInt(200)) &&
			e.NewBalance.Equal(decimal.NewFromInt(140))
	})).Return(nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Approval == domain.ApprovalApproved && e.ApproverID != nil
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionApprove
	})).Return(nil).Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, approved.Approval)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_PersonalMoneyPostsNothing() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)

	suite.expectTx()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Approval == domain.ApprovalApproved
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalApproved, approved.Approval)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_NegativeFloatBlockedWhenConfigured() {
	ctx := context.Background()
	strictService := services.NewExpenseService(
		suite.mockExpenseRepo, suite.mockLedgerRepo, suite.mockHolderRepo, suite.mockAuditRepo, nil, true)
	expense := suite.pendingExpense(domain.PaidFromInstituteFloat)

	suite.expectRollbackOnly()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, mock.Anything).
		Return(map[string]domain.Holder{suite.holderID: {HolderID: suite.holderID, IsActive: true}}, nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.holderID).
		Return(decimal.NewFromInt(10), nil).Once()

	approved, err := strictService.ApproveExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(approved)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "NextSequence", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRejectExpense_OnlyFromPending() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)
	expense.Approval = domain.ApprovalApproved

	suite.expectRollbackOnly()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()

	rejected, err := suite.service.RejectExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(rejected)
	suite.mockExpenseRepo.AssertNotCalled(suite.T(), "UpdateExpenseInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestReimburseExpense_ClosesApprovedExpense() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)
	expense.Approval = domain.ApprovalApproved

	suite.expectTx()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Reimbursement == domain.ReimbursementReimbursed
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionReimburse
	})).Return(nil).Once()

	reimbursed, err := suite.service.ReimburseExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReimbursementReimbursed, reimbursed.Reimbursement)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestReimburseExpense_RequiresApproval() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)

	suite.expectRollbackOnly()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()

	reimbursed, err := suite.service.ReimburseExpense(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(reimbursed)
}

func (suite *ExpenseServiceTestSuite) TestCancelReimbursement_ClosesWithoutPayout() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)
	expense.Approval = domain.ApprovalApproved

	suite.expectTx()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()
	suite.mockExpenseRepo.On("UpdateExpenseInTx", ctx, mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Reimbursement == domain.ReimbursementCancelled
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionCancel
	})).Return(nil).Once()

	cancelled, err := suite.service.CancelReimbursement(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.ReimbursementCancelled, cancelled.Reimbursement)
}

func (suite *ExpenseServiceTestSuite) TestCancelReimbursement_AlreadyClosedRejected() {
	ctx := context.Background()
	expense := suite.pendingExpense(domain.PaidFromPersonalMoney)
	expense.Approval = domain.ApprovalApproved
	expense.Reimbursement = domain.ReimbursementReimbursed

	suite.expectRollbackOnly()
	suite.mockExpenseRepo.On("FindExpenseByIDForUpdate", ctx, mock.Anything, expense.ExpenseID).
		Return(expense, nil).Once()

	cancelled, err := suite.service.CancelReimbursement(ctx, expense.ExpenseID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(cancelled)
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
