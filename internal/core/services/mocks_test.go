package services_test

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
)

// --- Mock transaction manager (shared by the repository mocks) ---

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock HolderRepository ---

type MockHolderRepository struct {
	mockTxManager
}

var _ portsrepo.HolderRepositoryWithTx = (*MockHolderRepository)(nil)

func (m *MockHolderRepository) FindHolderByID(ctx context.Context, holderID string) (*domain.Holder, error) {
	args := m.Called(ctx, holderID)
	var holder *domain.Holder
	if args.Get(0) != nil {
		holder = args.Get(0).(*domain.Holder)
	}
	return holder, args.Error(1)
}

func (m *MockHolderRepository) FindHolderByUsername(ctx context.Context, username string) (*domain.Holder, error) {
	args := m.Called(ctx, username)
	var holder *domain.Holder
	if args.Get(0) != nil {
		holder = args.Get(0).(*domain.Holder)
	}
	return holder, args.Error(1)
}

func (m *MockHolderRepository) ListHolders(ctx context.Context, limit int, offset int) ([]domain.Holder, error) {
	args := m.Called(ctx, limit, offset)
	var holders []domain.Holder
	if args.Get(0) != nil {
		holders = args.Get(0).([]domain.Holder)
	}
	return holders, args.Error(1)
}

func (m *MockHolderRepository) SaveHolder(ctx context.Context, holder domain.Holder) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}

func (m *MockHolderRepository) UpdateHolder(ctx context.Context, holder domain.Holder) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}

func (m *MockHolderRepository) FindHoldersByIDsForUpdate(ctx context.Context, tx pgx.Tx, holderIDs []string) (map[string]domain.Holder, error) {
	args := m.Called(ctx, tx, holderIDs)
	var holders map[string]domain.Holder
	if args.Get(0) != nil {
		holders = args.Get(0).(map[string]domain.Holder)
	}
	return holders, args.Error(1)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mockTxManager
}

var _ portsrepo.LedgerRepositoryWithTx = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindLatestEntryForHolder(ctx context.Context, holderID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, holderID)
	var entry *domain.LedgerEntry
	if args.Get(0) != nil {
		entry = args.Get(0).(*domain.LedgerEntry)
	}
	return entry, args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesForHolder(ctx context.Context, holderID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, holderID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) ListChainForHolder(ctx context.Context, holderID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, holderID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByReference(ctx context.Context, ref domain.Reference) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ref)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) NextSequence(ctx context.Context, tx pgx.Tx) (int64, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) LatestBalanceInTx(ctx context.Context, tx pgx.Tx, holderID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, holderID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListChainForHolderInTx(ctx context.Context, tx pgx.Tx, holderID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, holderID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) InsertEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateEntryBalancesInTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) ReplaceReferenceEntriesInTx(ctx context.Context, tx pgx.Tx, ref domain.Reference, newEntries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, ref, newEntries)
	var removed []domain.LedgerEntry
	if args.Get(0) != nil {
		removed = args.Get(0).([]domain.LedgerEntry)
	}
	return removed, args.Error(1)
}

// --- Mock TransferRepository ---

type MockTransferRepository struct {
	mockTxManager
}

var _ portsrepo.TransferRepositoryWithTx = (*MockTransferRepository)(nil)

func (m *MockTransferRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.CashTransfer, error) {
	args := m.Called(ctx, transferID)
	var transfer *domain.CashTransfer
	if args.Get(0) != nil {
		transfer = args.Get(0).(*domain.CashTransfer)
	}
	return transfer, args.Error(1)
}

func (m *MockTransferRepository) ListTransfers(ctx context.Context, limit int, nextToken *string) ([]domain.CashTransfer, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var transfers []domain.CashTransfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]domain.CashTransfer)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return transfers, token, args.Error(2)
}

func (m *MockTransferRepository) FindTransferByIDForUpdate(ctx context.Context, tx pgx.Tx, transferID string) (*domain.CashTransfer, error) {
	args := m.Called(ctx, tx, transferID)
	var transfer *domain.CashTransfer
	if args.Get(0) != nil {
		transfer = args.Get(0).(*domain.CashTransfer)
	}
	return transfer, args.Error(1)
}

func (m *MockTransferRepository) InsertTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error {
	args := m.Called(ctx, tx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) UpdateTransferInTx(ctx context.Context, tx pgx.Tx, transfer domain.CashTransfer) error {
	args := m.Called(ctx, tx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) DeleteTransferInTx(ctx context.Context, tx pgx.Tx, transferID string) error {
	args := m.Called(ctx, tx, transferID)
	return args.Error(0)
}

// --- Mock IncomeRepository ---

type MockIncomeRepository struct {
	mockTxManager
}

var _ portsrepo.IncomeRepositoryWithTx = (*MockIncomeRepository)(nil)

func (m *MockIncomeRepository) FindIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error) {
	args := m.Called(ctx, incomeID)
	var income *domain.Income
	if args.Get(0) != nil {
		income = args.Get(0).(*domain.Income)
	}
	return income, args.Error(1)
}

func (m *MockIncomeRepository) ListIncomes(ctx context.Context, status *domain.IncomeStatus, limit int, nextToken *string) ([]domain.Income, *string, error) {
	args := m.Called(ctx, status, limit, nextToken)
	var incomes []domain.Income
	if args.Get(0) != nil {
		incomes = args.Get(0).([]domain.Income)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return incomes, token, args.Error(2)
}

func (m *MockIncomeRepository) FindIncomeByIDForUpdate(ctx context.Context, tx pgx.Tx, incomeID string) (*domain.Income, error) {
	args := m.Called(ctx, tx, incomeID)
	var income *domain.Income
	if args.Get(0) != nil {
		income = args.Get(0).(*domain.Income)
	}
	return income, args.Error(1)
}

func (m *MockIncomeRepository) InsertIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error {
	args := m.Called(ctx, tx, income)
	return args.Error(0)
}

func (m *MockIncomeRepository) UpdateIncomeInTx(ctx context.Context, tx pgx.Tx, income domain.Income) error {
	args := m.Called(ctx, tx, income)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mockTxManager
}

var _ portsrepo.ExpenseRepositoryWithTx = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, approval *domain.ApprovalStatus, limit int, nextToken *string) ([]domain.Expense, *string, error) {
	args := m.Called(ctx, approval, limit, nextToken)
	var expenses []domain.Expense
	if args.Get(0) != nil {
		expenses = args.Get(0).([]domain.Expense)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return expenses, token, args.Error(2)
}

func (m *MockExpenseRepository) FindExpenseByIDForUpdate(ctx context.Context, tx pgx.Tx, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, tx, expenseID)
	var expense *domain.Expense
	if args.Get(0) != nil {
		expense = args.Get(0).(*domain.Expense)
	}
	return expense, args.Error(1)
}

func (m *MockExpenseRepository) InsertExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) UpdateExpenseInTx(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	args := m.Called(ctx, tx, expense)
	return args.Error(0)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) ListAuditEntries(ctx context.Context, filter portsrepo.AuditFilter, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.AuditEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.AuditEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockAuditRepository) InsertAuditEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// --- Mock EventPublisher ---

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, event any) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}
