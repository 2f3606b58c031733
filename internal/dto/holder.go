package dto

import (
	"time"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
)

// CreateHolderRequest defines the data needed to register a new float holder.
type CreateHolderRequest struct {
	Name     string            `json:"name" binding:"required"`
	Role     domain.HolderRole `json:"role" binding:"required,oneof=ADMIN MANAGER STAFF"`
	Username string            `json:"username" binding:"required,min=3"`
	Password string            `json:"password" binding:"required,min=8"`
}

// UpdateHolderRequest defines the data allowed for updating a holder.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateHolderRequest struct {
	Name *string            `json:"name"`
	Role *domain.HolderRole `json:"role" binding:"omitempty,oneof=ADMIN MANAGER STAFF"`
}

// HolderResponse defines the data returned for a holder.
type HolderResponse struct {
	HolderID      string            `json:"holderID"`
	Name          string            `json:"name"`
	Role          domain.HolderRole `json:"role"`
	Username      string            `json:"username"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy string            `json:"lastUpdatedBy"`
}

// ToHolderResponse converts a domain.Holder to HolderResponse.
func ToHolderResponse(h *domain.Holder) HolderResponse {
	return HolderResponse{
		HolderID:      h.HolderID,
		Name:          h.Name,
		Role:          h.Role,
		Username:      h.Username,
		IsActive:      h.IsActive,
		CreatedAt:     h.CreatedAt,
		CreatedBy:     h.CreatedBy,
		LastUpdatedAt: h.LastUpdatedAt,
		LastUpdatedBy: h.LastUpdatedBy,
	}
}

// ToListHolderResponse converts a slice of domain.Holder to response DTOs.
func ToListHolderResponse(holders []domain.Holder) []HolderResponse {
	res := make([]HolderResponse, len(holders))
	for i := range holders {
		res[i] = ToHolderResponse(&holders[i])
	}
	return res
}

// ListHoldersParams defines query parameters for listing holders.
type ListHoldersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// LoginRequest defines the credentials for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated holder.
type LoginResponse struct {
	Token  string         `json:"token"`
	Holder HolderResponse `json:"holder"`
}
