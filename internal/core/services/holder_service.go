package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"context"

	"github.com/google/uuid"

	"github.com/alfurqan-institute/cashfloat_backend/internal/apperrors"
	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portsrepo "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/repositories"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
	"github.com/alfurqan-institute/cashfloat_backend/internal/utils"
)

// holderService manages the staff members who can hold institute float.
type holderService struct {
	holderRepo portsrepo.HolderRepositoryWithTx
}

// NewHolderService creates a new HolderService.
func NewHolderService(holderRepo portsrepo.HolderRepositoryWithTx) portssvc.HolderSvcFacade {
	return &holderService{holderRepo: holderRepo}
}

var _ portssvc.HolderSvcFacade = (*holderService)(nil)

// CreateHolder registers a new float holder with login credentials.
func (s *holderService) CreateHolder(ctx context.Context, req dto.CreateHolderRequest, creatorID string) (*domain.Holder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to hash password: %w", apperrors.ErrInternal)
	}

	now := time.Now().UTC()
	holder := domain.Holder{
		HolderID:     uuid.NewString(),
		Name:         req.Name,
		Role:         req.Role,
		Username:     req.Username,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.holderRepo.SaveHolder(ctx, holder); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save holder", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Holder created", slog.String("holder_id", holder.HolderID))
	return &holder, nil
}

// GetHolderByID retrieves a single holder.
func (s *holderService) GetHolderByID(ctx context.Context, holderID string) (*domain.Holder, error) {
	return s.holderRepo.FindHolderByID(ctx, holderID)
}

// ListHolders retrieves holders ordered by name.
func (s *holderService) ListHolders(ctx context.Context, params dto.ListHoldersParams) ([]domain.Holder, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.holderRepo.ListHolders(ctx, limit, params.Offset)
}

// UpdateHolder updates a holder's name and role.
func (s *holderService) UpdateHolder(ctx context.Context, holderID string, req dto.UpdateHolderRequest, updaterID string) (*domain.Holder, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	holder, err := s.holderRepo.FindHolderByID(ctx, holderID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		holder.Name = *req.Name
		updated = true
	}
	if req.Role != nil {
		holder.Role = *req.Role
		updated = true
	}
	if !updated {
		return holder, nil
	}

	holder.LastUpdatedAt = time.Now().UTC()
	holder.LastUpdatedBy = updaterID

	if err := s.holderRepo.UpdateHolder(ctx, *holder); err != nil {
		logger.Error("Failed to update holder", slog.String("error", err.Error()), slog.String("holder_id", holderID))
		return nil, err
	}
	return holder, nil
}

// RetireHolder soft-retires a holder. Ledger history referencing the holder
// is preserved; holders are never hard-deleted.
func (s *holderService) RetireHolder(ctx context.Context, holderID string, updaterID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	holder, err := s.holderRepo.FindHolderByID(ctx, holderID)
	if err != nil {
		return err
	}
	if !holder.IsActive {
		return fmt.Errorf("%w: holder %s is already retired", apperrors.ErrValidation, holderID)
	}

	holder.IsActive = false
	holder.LastUpdatedAt = time.Now().UTC()
	holder.LastUpdatedBy = updaterID

	if err := s.holderRepo.UpdateHolder(ctx, *holder); err != nil {
		logger.Error("Failed to retire holder", slog.String("error", err.Error()), slog.String("holder_id", holderID))
		return err
	}

	logger.Info("Holder retired", slog.String("holder_id", holderID))
	return nil
}

// Authenticate verifies credentials for the login endpoint.
func (s *holderService) Authenticate(ctx context.Context, username, password string) (*domain.Holder, error) {
	holder, err := s.holderRepo.FindHolderByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a bad password so usernames can't be probed.
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, holder.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	if !holder.IsActive {
		return nil, fmt.Errorf("%w: holder is retired", apperrors.ErrForbidden)
	}
	return holder, nil
}
