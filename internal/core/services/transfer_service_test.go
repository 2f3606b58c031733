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

type TransferServiceTestSuite struct {
	suite.Suite
	mockTransferRepo *MockTransferRepository
	mockLedgerRepo   *MockLedgerRepository
	mockHolderRepo   *MockHolderRepository
	mockAuditRepo    *MockAuditRepository
	service          portssvc.TransferSvcFacade

	senderID   string
	receiverID string
	actorID    string
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockTransferRepo = new(MockTransferRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockHolderRepo = new(MockHolderRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.service = services.NewTransferService(
		suite.mockTransferRepo, suite.mockLedgerRepo, suite.mockHolderRepo, suite.mockAuditRepo, nil, false)

	suite.senderID = "aaaa-sender"
	suite.receiverID = "bbbb-receiver"
	suite.actorID = uuid.NewString()
}

func (suite *TransferServiceTestSuite) activeHolders(ids ...string) map[string]domain.Holder {
	holders := make(map[string]domain.Holder, len(ids))
	for _, id := range ids {
		holders[id] = domain.Holder{HolderID: id, Name: "Holder " + id, IsActive: true}
	}
	return holders
}

func (suite *TransferServiceTestSuite) expectTx(repo *mockTxManager) {
	repo.On("Begin", mock.Anything).Return(nil, nil).Once()
	repo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_PostsDebitAndCredit() {
	ctx := context.Background()
	amount := decimal.NewFromInt(30)
	req := dto.CreateTransferRequest{
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     amount,
		Date:       time.Now().UTC(),
	}

	suite.expectTx(&suite.mockTransferRepo.mockTxManager)
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, []string{suite.senderID, suite.receiverID}).
		Return(suite.activeHolders(suite.senderID, suite.receiverID), nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.senderID).
		Return(decimal.NewFromInt(100), nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.receiverID).
		Return(decimal.NewFromInt(20), nil).Once()
	suite.mockLedgerRepo.On("NextSequence", ctx, mock.Anything).Return(int64(7), nil).Once()
	suite.mockLedgerRepo.On("NextSequence", ctx, mock.Anything).Return(int64(8), nil).Once()
	suite.mockTransferRepo.On("InsertTransferInTx", ctx, mock.Anything, mock.AnythingOfType("domain.CashTransfer")).
		Return(nil).Once()

	suite.mockLedgerRepo.On("InsertEntriesInTx", ctx, mock.Anything, mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
		if len(entries) != 2 {
			return false
		}
		debit, credit := entries[0], entries[1]
		return debit.HolderID == suite.senderID &&
			debit.Kind == domain.Debit &&
			debit.Sequence == 7 &&
			debit.PreviousBalance.Equal(decimal.NewFromInt(100)) &&
			debit.NewBalance.Equal(decimal.NewFromInt(70)) &&
			credit.HolderID == suite.receiverID &&
			credit.Kind == domain.Credit &&
			credit.Sequence == 8 &&
			credit.PreviousBalance.Equal(decimal.NewFromInt(20)) &&
			credit.NewBalance.Equal(decimal.NewFromInt(50)) &&
			debit.Reference.Kind == domain.RefTransfer &&
			credit.Reference.Kind == domain.RefTransfer
	})).Return(nil).Once()

	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionCreate && a.EntityType == domain.EntityTransfer && a.Before == nil
	})).Return(nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(transfer)
	suite.Equal(suite.senderID, transfer.SenderID)
	suite.True(transfer.Amount.Equal(amount))
	suite.NotEmpty(transfer.TransferID)

	suite.mockTransferRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockHolderRepo.AssertExpectations(suite.T())
	suite.mockAuditRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_SelfTransferRejected() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		SenderID:   suite.senderID,
		ReceiverID: suite.senderID,
		Amount:     decimal.NewFromInt(10),
		Date:       time.Now().UTC(),
	}

	transfer, err := suite.service.CreateTransfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(transfer)
	suite.mockTransferRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_RetiredHolderRejected() {
	ctx := context.Background()
	req := dto.CreateTransferRequest{
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     decimal.NewFromInt(10),
		Date:       time.Now().UTC(),
	}

	holders := suite.activeHolders(suite.senderID, suite.receiverID)
	retired := holders[suite.receiverID]
	retired.IsActive = false
	holders[suite.receiverID] = retired

	suite.mockTransferRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTransferRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, mock.Anything).
		Return(holders, nil).Once()

	transfer, err := suite.service.CreateTransfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(transfer)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "InsertEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestCreateTransfer_NegativeFloatBlockedWhenConfigured() {
	ctx := context.Background()
	strictService := services.NewTransferService(
		suite.mockTransferRepo, suite.mockLedgerRepo, suite.mockHolderRepo, suite.mockAuditRepo, nil, true)

	req := dto.CreateTransferRequest{
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     decimal.NewFromInt(500),
		Date:       time.Now().UTC(),
	}

	suite.mockTransferRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTransferRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, mock.Anything).
		Return(suite.activeHolders(suite.senderID, suite.receiverID), nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.senderID).
		Return(decimal.NewFromInt(100), nil).Once()
	suite.mockLedgerRepo.On("LatestBalanceInTx", ctx, mock.Anything, suite.receiverID).
		Return(decimal.Zero, nil).Once()

	transfer, err := strictService.CreateTransfer(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(transfer)
}

// transferChains builds a pair of chains carrying an existing transfer of 30
// plus unrelated entries before and after it on the sender side.
func (suite *TransferServiceTestSuite) transferChains(transferID string) (sender, receiver []domain.LedgerEntry) {
	ref := domain.Reference{Kind: domain.RefTransfer, ReferenceID: &transferID}
	sender = []domain.LedgerEntry{
		{
			EntryID: "s-open", HolderID: suite.senderID, Sequence: 1, Kind: domain.Credit,
			Amount: decimal.NewFromInt(100), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(100),
			Reference: domain.Reference{Kind: domain.RefManual},
		},
		{
			EntryID: "s-debit", HolderID: suite.senderID, Sequence: 2, Kind: domain.Debit,
			Amount: decimal.NewFromInt(30), PreviousBalance: decimal.NewFromInt(100), NewBalance: decimal.NewFromInt(70),
			Reference: ref,
		},
		{
			EntryID: "s-later", HolderID: suite.senderID, Sequence: 4, Kind: domain.Debit,
			Amount: decimal.NewFromInt(10), PreviousBalance: decimal.NewFromInt(70), NewBalance: decimal.NewFromInt(60),
			Reference: domain.Reference{Kind: domain.RefManual},
		},
	}
	receiver = []domain.LedgerEntry{
		{
			EntryID: "r-credit", HolderID: suite.receiverID, Sequence: 3, Kind: domain.Credit,
			Amount: decimal.NewFromInt(30), PreviousBalance: decimal.Zero, NewBalance: decimal.NewFromInt(30),
			Reference: ref,
		},
	}
	return sender, receiver
}

func (suite *TransferServiceTestSuite) TestEditTransfer_AmountChangeRecomputesForward() {
	ctx := context.Background()
	transferID := uuid.NewString()
	existing := &domain.CashTransfer{
		TransferID: transferID,
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     decimal.NewFromInt(30),
		Date:       time.Now().UTC(),
	}
	senderChain, receiverChain := suite.transferChains(transferID)

	newAmount := decimal.NewFromInt(50)
	req := dto.UpdateTransferRequest{Amount: &newAmount}

	suite.expectTx(&suite.mockTransferRepo.mockTxManager)
	suite.mockTransferRepo.On("FindTransferByIDForUpdate", ctx, mock.Anything, transferID).
		Return(existing, nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, []string{suite.senderID, suite.receiverID}).
		Return(suite.activeHolders(suite.senderID, suite.receiverID), nil).Once()
	suite.mockLedgerRepo.On("ListChainForHolderInTx", ctx, mock.Anything, suite.senderID).
		Return(senderChain, nil).Once()
	suite.mockLedgerRepo.On("ListChainForHolderInTx", ctx, mock.Anything, suite.receiverID).
		Return(receiverChain, nil).Once()

	// Parties are unchanged, so both replacement entries keep their
	// positions and no new sequence is allocated.
	suite.mockLedgerRepo.On("ReplaceReferenceEntriesInTx", ctx, mock.Anything,
		mock.AnythingOfType("domain.Reference"),
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			if len(entries) != 2 {
				return false
			}
			debit, credit := entries[0], entries[1]
			return debit.Sequence == 2 &&
				debit.Amount.Equal(newAmount) &&
				debit.PreviousBalance.Equal(decimal.NewFromInt(100)) &&
				debit.NewBalance.Equal(decimal.NewFromInt(50)) &&
				credit.Sequence == 3 &&
				credit.PreviousBalance.Equal(decimal.Zero) &&
				credit.NewBalance.Equal(decimal.NewFromInt(50))
		})).Return(nil, nil).Once()

	// The later sender entry is pushed forward from 60 to 40.
	suite.mockLedgerRepo.On("UpdateEntryBalancesInTx", ctx, mock.Anything,
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			for _, e := range entries {
				if e.EntryID == "s-later" {
					return e.PreviousBalance.Equal(decimal.NewFromInt(50)) &&
						e.NewBalance.Equal(decimal.NewFromInt(40))
				}
			}
			return false
		})).Return(nil).Once()

	suite.mockTransferRepo.On("UpdateTransferInTx", ctx, mock.Anything, mock.MatchedBy(func(t domain.CashTransfer) bool {
		return t.Amount.Equal(newAmount)
	})).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionUpdate && a.EntityType == domain.EntityTransfer
	})).Return(nil).Once()

	updated, err := suite.service.EditTransfer(ctx, transferID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(updated.Amount.Equal(newAmount))
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "NextSequence", mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestEditTransfer_NoChangesShortCircuits() {
	ctx := context.Background()
	transferID := uuid.NewString()
	existing := &domain.CashTransfer{
		TransferID: transferID,
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     decimal.NewFromInt(30),
		Date:       time.Now().UTC(),
	}

	suite.mockTransferRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTransferRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockTransferRepo.On("FindTransferByIDForUpdate", ctx, mock.Anything, transferID).
		Return(existing, nil).Once()

	updated, err := suite.service.EditTransfer(ctx, transferID, dto.UpdateTransferRequest{}, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(existing, updated)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "ReplaceReferenceEntriesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestDeleteTransfer_RemovesPairAndRecomputes() {
	ctx := context.Background()
	transferID := uuid.NewString()
	existing := &domain.CashTransfer{
		TransferID: transferID,
		SenderID:   suite.senderID,
		ReceiverID: suite.receiverID,
		Amount:     decimal.NewFromInt(30),
		Date:       time.Now().UTC(),
	}
	senderChain, receiverChain := suite.transferChains(transferID)

	suite.expectTx(&suite.mockTransferRepo.mockTxManager)
	suite.mockTransferRepo.On("FindTransferByIDForUpdate", ctx, mock.Anything, transferID).
		Return(existing, nil).Once()
	suite.mockHolderRepo.On("FindHoldersByIDsForUpdate", ctx, mock.Anything, []string{suite.senderID, suite.receiverID}).
		Return(suite.activeHolders(suite.senderID, suite.receiverID), nil).Once()
	suite.mockLedgerRepo.On("ListChainForHolderInTx", ctx, mock.Anything, suite.senderID).
		Return(senderChain, nil).Once()
	suite.mockLedgerRepo.On("ListChainForHolderInTx", ctx, mock.Anything, suite.receiverID).
		Return(receiverChain, nil).Once()
	suite.mockLedgerRepo.On("ReplaceReferenceEntriesInTx", ctx, mock.Anything,
		mock.AnythingOfType("domain.Reference"), mock.Anything).Return(nil, nil).Once()

	// With the transfer gone the sender chain reads 100 then 90; the
	// receiver chain has no surviving entries.
	suite.mockLedgerRepo.On("UpdateEntryBalancesInTx", ctx, mock.Anything,
		mock.MatchedBy(func(entries []domain.LedgerEntry) bool {
			byID := make(map[string]domain.LedgerEntry, len(entries))
			for _, e := range entries {
				byID[e.EntryID] = e
			}
			later, ok := byID["s-later"]
			if !ok {
				return false
			}
			return later.PreviousBalance.Equal(decimal.NewFromInt(100)) &&
				later.NewBalance.Equal(decimal.NewFromInt(90))
		})).Return(nil).Once()

	suite.mockTransferRepo.On("DeleteTransferInTx", ctx, mock.Anything, transferID).Return(nil).Once()
	suite.mockAuditRepo.On("InsertAuditEntryInTx", ctx, mock.Anything, mock.MatchedBy(func(a domain.AuditEntry) bool {
		return a.Action == domain.ActionDelete && a.After == nil
	})).Return(nil).Once()

	err := suite.service.DeleteTransfer(ctx, transferID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockTransferRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestDeleteTransfer_NotFound() {
	ctx := context.Background()
	transferID := uuid.NewString()

	suite.mockTransferRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockTransferRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockTransferRepo.On("FindTransferByIDForUpdate", ctx, mock.Anything, transferID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTransfer(ctx, transferID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
