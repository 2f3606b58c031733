package dto

import (
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateIncomeRequest defines the data needed to record incoming money.
// HeldByID is optional: an income without a holding staff member is a
// financial record only and never posts a ledger entry.
type CreateIncomeRequest struct {
	Source   string          `json:"source" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Date     time.Time       `json:"date" binding:"required"`
	HeldByID *string         `json:"heldByID"`
	Notes    string          `json:"notes"`
}

// IncomeResponse defines the data returned for an income record.
type IncomeResponse struct {
	IncomeID      string              `json:"incomeID"`
	Source        string              `json:"source"`
	Amount        decimal.Decimal     `json:"amount"`
	Date          time.Time           `json:"date"`
	HeldByID      *string             `json:"heldByID,omitempty"`
	Status        domain.IncomeStatus `json:"status"`
	ApproverID    *string             `json:"approverID,omitempty"`
	Notes         string              `json:"notes"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToIncomeResponse converts a domain.Income to IncomeResponse.
func ToIncomeResponse(in *domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:      in.IncomeID,
		Source:        in.Source,
		Amount:        in.Amount,
		Date:          in.Date,
		HeldByID:      in.HeldByID,
		Status:        in.Status,
		ApproverID:    in.ApproverID,
		Notes:         in.Notes,
		CreatedAt:     in.CreatedAt,
		CreatedBy:     in.CreatedBy,
		LastUpdatedAt: in.LastUpdatedAt,
		LastUpdatedBy: in.LastUpdatedBy,
	}
}

// ListIncomesParams defines query parameters for listing incomes.
type ListIncomesParams struct {
	Status    *domain.IncomeStatus `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED REJECTED"`
	Limit     int                  `form:"limit,default=20"`
	NextToken *string              `form:"nextToken"`
}

// ListIncomesResponse is a page of income records.
type ListIncomesResponse struct {
	Incomes   []IncomeResponse `json:"incomes"`
	NextToken *string          `json:"nextToken,omitempty"`
}
