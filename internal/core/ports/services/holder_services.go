package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// HolderSvcFacade defines the operations for managing float holders.
type HolderSvcFacade interface {
	CreateHolder(ctx context.Context, req dto.CreateHolderRequest, creatorID string) (*domain.Holder, error)
	GetHolderByID(ctx context.Context, holderID string) (*domain.Holder, error)
	ListHolders(ctx context.Context, params dto.ListHoldersParams) ([]domain.Holder, error)
	UpdateHolder(ctx context.Context, holderID string, req dto.UpdateHolderRequest, updaterID string) (*domain.Holder, error)

	// RetireHolder soft-retires a holder. The holder's ledger history is
	// preserved; only new ledger activity is prevented.
	RetireHolder(ctx context.Context, holderID string, updaterID string) error

	// Authenticate verifies a username/password pair and returns the holder.
	Authenticate(ctx context.Context, username, password string) (*domain.Holder, error)
}
