package dto

import (
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest defines the data needed to move float between holders.
type CreateTransferRequest struct {
	SenderID   string          `json:"senderID" binding:"required"`
	ReceiverID string          `json:"receiverID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Date       time.Time       `json:"date" binding:"required"`
	Notes      string          `json:"notes"`
}

// UpdateTransferRequest defines the fields an existing transfer may change.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransferRequest struct {
	SenderID   *string          `json:"senderID"`
	ReceiverID *string          `json:"receiverID"`
	Amount     *decimal.Decimal `json:"amount" binding:"omitempty,dgt0"`
	Date       *time.Time       `json:"date"`
	Notes      *string          `json:"notes"`
}

// TransferResponse defines the data returned for a cash transfer.
type TransferResponse struct {
	TransferID    string          `json:"transferID"`
	SenderID      string          `json:"senderID"`
	ReceiverID    string          `json:"receiverID"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToTransferResponse converts a domain.CashTransfer to TransferResponse.
func ToTransferResponse(t *domain.CashTransfer) TransferResponse {
	return TransferResponse{
		TransferID:    t.TransferID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		Amount:        t.Amount,
		Date:          t.Date,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
		LastUpdatedAt: t.LastUpdatedAt,
		LastUpdatedBy: t.LastUpdatedBy,
	}
}

// ListTransfersParams defines query parameters for listing transfers.
type ListTransfersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransfersResponse is a page of transfers.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}
