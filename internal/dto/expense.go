package dto

import (
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record outgoing money.
// FloatHolderID is required when the expense was paid from institute float.
type CreateExpenseRequest struct {
	Description   string          `json:"description" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,dgt0"`
	Date          time.Time       `json:"date" binding:"required"`
	PaidFrom      domain.PaidFrom `json:"paidFrom" binding:"required,oneof=INSTITUTE_FLOAT PERSONAL_MONEY"`
	FloatHolderID *string         `json:"floatHolderID"`
}

// ExpenseResponse defines the data returned for an expense record.
type ExpenseResponse struct {
	ExpenseID     string                     `json:"expenseID"`
	Description   string                     `json:"description"`
	Amount        decimal.Decimal            `json:"amount"`
	Date          time.Time                  `json:"date"`
	PaidFrom      domain.PaidFrom            `json:"paidFrom"`
	FloatHolderID *string                    `json:"floatHolderID,omitempty"`
	Approval      domain.ApprovalStatus      `json:"approvalStatus"`
	Reimbursement domain.ReimbursementStatus `json:"reimbursementStatus"`
	ApproverID    *string                    `json:"approverID,omitempty"`
	CreatedAt     time.Time                  `json:"createdAt"`
	CreatedBy     string                     `json:"createdBy"`
	LastUpdatedAt time.Time                  `json:"lastUpdatedAt"`
	LastUpdatedBy string                     `json:"lastUpdatedBy"`
}

// ToExpenseResponse converts a domain.Expense to ExpenseResponse.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date,
		PaidFrom:      e.PaidFrom,
		FloatHolderID: e.FloatHolderID,
		Approval:      e.Approval,
		Reimbursement: e.Reimbursement,
		ApproverID:    e.ApproverID,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Approval  *domain.ApprovalStatus `form:"approvalStatus" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit     int                    `form:"limit,default=20"`
	NextToken *string                `form:"nextToken"`
}

// ListExpensesResponse is a page of expense records.
type ListExpensesResponse struct {
	Expenses  []ExpenseResponse `json:"expenses"`
	NextToken *string           `json:"nextToken,omitempty"`
}
