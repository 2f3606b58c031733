package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// IncomeSvcFacade defines the income approval workflow.
// Confirm and Reject are only valid from PENDING; both are terminal.
type IncomeSvcFacade interface {
	CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorID string) (*domain.Income, error)
	GetIncomeByID(ctx context.Context, incomeID string) (*domain.Income, error)
	ListIncomes(ctx context.Context, params dto.ListIncomesParams) (*dto.ListIncomesResponse, error)

	// ConfirmIncome confirms a pending income and, when the income names a
	// holding staff member, posts one credit entry to their chain.
	ConfirmIncome(ctx context.Context, incomeID string, approverID string) (*domain.Income, error)

	// RejectIncome rejects a pending income. Never touches the ledger.
	RejectIncome(ctx context.Context, incomeID string, approverID string) (*domain.Income, error)
}
