package services

import (
	"context"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
)

// TransferSvcFacade defines the cash transfer lifecycle. Every mutation
// keeps the chain invariant for all affected holders, recomputing forward
// when the transfer is not the newest event in a chain.
type TransferSvcFacade interface {
	CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, creatorID string) (*domain.CashTransfer, error)
	EditTransfer(ctx context.Context, transferID string, req dto.UpdateTransferRequest, updaterID string) (*domain.CashTransfer, error)
	DeleteTransfer(ctx context.Context, transferID string, actorID string) error
	GetTransferByID(ctx context.Context, transferID string) (*domain.CashTransfer, error)
	ListTransfers(ctx context.Context, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error)
}
