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

type IncomeServiceTestSuite struct {
	suite.Suite
	mockIncomeRepo *MockIncomeRepository
	mockLedgerRepo *MockLedgerRepository
	mockHolderRepo *MockHolderRepository
	mockAuditRepo  *MockAuditRepository
	service        portssvc.IncomeSvcFacade

	holderID   string
	approverID string
}

func (suite *IncomeServiceTestSuite) SetupTest() {
	suite.mockIncomeRepo = new(MockIncomeRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockHolderRepo = new(MockHolderRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewIncomeService(
		suite.mockIncomeRepo, suite.mockLedgerRepo, suite.mockHolderRepo, suite.mockAuditRepo, nil)

	suite.holderID = uuid.NewString()
	suite.approverID = uuid.NewString()
}

func (suite *IncomeServiceTestSuite) pendingIncome(heldBy *string) *domain.Income {
	return &domain.Income{
		IncomeID: uuid.NewString(),
		Source:   "Friday donations",
		Amount:   decimal.NewFromInt(250),
		Date:     time.Now().UTC(),
		HeldByID: heldBy,
		Status:   domain.IncomePending,
	}
}

func (suite *IncomeServiceTestSuite) expectTx() {
	suite.mockIncomeRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockIncomeRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockIncomeRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *IncomeServiceTestSuite) TestCreateIncome_StartsPending() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		Source: "Friday donations",
		Amount: decimal.NewFromInt(250),
		Date:   time.Now().UTC(),
	}

	suite.expectTx()
	suite.mockIncomeRepo.On("InsertIncomeInTx", ctx, mock.Anything, mock.MatchedBy(func(i domain.Income) bool {
		return i.Status == domain.IncomePending && i.Amount.Equal(req.Amount) && i.HeldByID == nil
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionCreate && a.EntityType == domain.EntityIncome
	})).Return(nil).Once()

	income, err := suite.service.CreateIncome(ctx, req, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomePending, income.Status)
	suite.NotEmpty(income.IncomeID)
	suite.mockHolderRepo.AssertNotCalled(suite.T(), "FindHolderByID", mock.Anything, mock.Anything)
	suite.mockIncomeRepo.AssertExpectations(suite.T())
}

func (suite *IncomeServiceTestSuite) TestCreateIncome_RetiredHolderRejected() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		Source:   "Grant",
		Amount:   decimal.NewFromInt(100),
		Date:     time.Now().UTC(),
		HeldByID: &suite.holderID,
	}

	suite.mockHolderRepo.On("FindHolderByID", ctx, suite.holderID).
		Return(&domain.Holder{HolderID: suite.holderID, IsActive: false}, nil).Once()

	income, err := suite.service.CreateIncome(ctx, req, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(income)
	suite.mockIncomeRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *IncomeServiceTestSuite) TestConfirmIncome_CreditsHoldingStaff() {
	ctx := context.Background()
	income := suite.pendingIncome(&suite.holderID)

	suite.expectTx()
	suite.mockIncomeRepo.On("FindIncomeByIDForUpdate", ctx, mock.Anything, income.IncomeID).
		Return(income, nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, []string{suite.holderID}).
		Return(map[string]domain.Holder{suite.holderID: {HolderID: suite.holderID, IsActive: true}}, nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.holderID).
		Return(decimal.NewFromInt(40), nil).Once()
	suite.mockLedgerRepo.On("NextSequence", ctx, mock.Anything).Return(int64(11), nil).Once()
	suite.mockLedgerRepo.On("InsertEntriesInTx", ctx, mock.Anything, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 1 {
			return false
		}
		e := entries[0]
		return e.HolderID == suite.holderID &&
			e.Kind == domain.Credit &&
			e.Sequence == 11 &&
			e.Reference.Kind == domain.RefIncome &&
			e.PreviousBalance.Equal(decimal.NewFromInt(40)) &&
			e.NewBalance.Equal(decimal.NewFromInt(290))
	})).Return(nil).Once()
	suite.mockIncomeRepo.On("UpdateIncomeInTx", ctx, mock.Anything, mock.MatchedBy(func(i domain.Income) bool {
		return i.Status == domain.IncomeConfirmed && i.ApproverID != nil && *i.ApproverID == suite.approverID
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionConfirm && a.EntityID == income.IncomeID
	})).Return(nil).Once()

	confirmed, err := suite.service.ConfirmIncome(ctx, income.IncomeID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomeConfirmed, confirmed.Status)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *IncomeServiceTestSuite) TestConfirmIncome_NoHoldingStaffPostsNothing() {
	ctx := context.Background()
	income := suite.pendingIncome(nil)

	suite.expectTx()
	suite.mockIncomeRepo.On("FindIncomeByIDForUpdate", ctx, mock.Anything, income.IncomeID).
		Return(income, nil).Once()
	suite.mockIncomeRepo.On("UpdateIncomeInTx", ctx, mock.Anything, mock.MatchedBy(func(i domain.Income) bool {
		return i.Status == domain.IncomeConfirmed
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()

	confirmed, err := suite.service.ConfirmIncome(ctx, income.IncomeID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomeConfirmed, confirmed.Status)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IncomeServiceTestSuite) TestConfirmIncome_AlreadyConfirmedRejected() {
	ctx := context.Background()
	income := suite.pendingIncome(nil)
	income.Status = domain.IncomeConfirmed

	suite.mockIncomeRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockIncomeRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockIncomeRepo.On("FindIncomeByIDForUpdate", ctx, mock.Anything, income.IncomeID).
		Return(income, nil).Once()

	confirmed, err := suite.service.ConfirmIncome(ctx, income.IncomeID, suite.approverID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(confirmed)
	suite.mockIncomeRepo.AssertNotCalled(suite.T(), "UpdateIncomeInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *IncomeServiceTestSuite) TestRejectIncome_NeverTouchesLedger() {
	ctx := context.Background()
	income := suite.pendingIncome(&suite.holderID)

	suite.expectTx()
	suite.mockIncomeRepo.On("FindIncomeByIDForUpdate", ctx, mock.Anything, income.IncomeID).
		Return(income, nil).Once()
	suite.mockIncomeRepo.On("UpdateIncomeInTx", ctx, mock.Anything, mock.MatchedBy(func(i domain.Income) bool {
		return i.Status == domain.IncomeRejected
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionReject
	})).Return(nil).Once()

	rejected, err := suite.service.RejectIncome(ctx, income.IncomeID, suite.approverID)

	suite.Require().NoError(err)
	suite.Equal(domain.IncomeRejected, rejected.Status)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "NextSequence", mock.Anything, mock.Anything)
}

func TestIncomeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IncomeServiceTestSuite))
}
