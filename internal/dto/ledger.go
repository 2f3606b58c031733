package dto

import (
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID         string               `json:"entryID"`
	HolderID        string               `json:"holderID"`
	Sequence        int64                `json:"sequence"`
	Kind            domain.EntryKind     `json:"kind"`
	Amount          decimal.Decimal      `json:"amount"`
	PreviousBalance decimal.Decimal      `json:"previousBalance"`
	NewBalance      decimal.Decimal      `json:"newBalance"`
	ReferenceKind   domain.ReferenceKind `json:"referenceKind"`
	ReferenceID     *string              `json:"referenceID,omitempty"`
	Description     string               `json:"description"`
	EntryDate       time.Time            `json:"entryDate"`
	CreatedAt       time.Time            `json:"createdAt"`
	CreatedBy       string               `json:"createdBy"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its response DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:         e.EntryID,
		HolderID:        e.HolderID,
		Sequence:        e.Sequence,
		Kind:            e.Kind,
		Amount:          e.Amount,
		PreviousBalance: e.PreviousBalance,
		NewBalance:      e.NewBalance,
		ReferenceKind:   e.Reference.Kind,
		ReferenceID:     e.Reference.ReferenceID,
		Description:     e.Description,
		EntryDate:       e.EntryDate,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
}

// ToLedgerEntryResponses converts a slice of entries to response DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i])
	}
	return res
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	HolderID string          `json:"holderID"`
	Balance  decimal.Decimal `json:"balance"`
}

// LedgerHistoryParams defines query parameters for the ledger history listing.
type LedgerHistoryParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// LedgerHistoryResponse is a page of a holder's ledger history.
type LedgerHistoryResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// CreateAdjustmentRequest defines a manual float correction for one holder.
type CreateAdjustmentRequest struct {
	Kind        domain.EntryKind `json:"kind" binding:"required,oneof=CREDIT DEBIT"`
	Amount      decimal.Decimal  `json:"amount" binding:"required,dgt0"`
	Description string           `json:"description" binding:"required"`
	Date        time.Time        `json:"date" binding:"required"`
}

// ChainVerificationResponse reports the result of a chain integrity check.
type ChainVerificationResponse struct {
	HolderID   string `json:"holderID"`
	EntryCount int    `json:"entryCount"`
	Valid      bool   `json:"valid"`
	Problem    string `json:"problem,omitempty"`
}
