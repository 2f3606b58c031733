package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
)

// holderHandler handles HTTP requests related to float holders.
type holderHandler struct {
	holderService portssvc.HolderSvcFacade
}

func newHolderHandler(hs portssvc.HolderSvcFacade) *holderHandler {
	return &holderHandler{holderService: hs}
}

// registerHolderRoutes registers all holder-related routes, including the
// per-holder ledger endpoints.
func registerHolderRoutes(rg *gin.RouterGroup, holderService portssvc.HolderSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newHolderHandler(holderService)

	holders := rg.Group("/holders")
	{
		holders.POST("", h.createHolder)
		holders.GET("", h.listHolders)
		holders.GET("/:id", h.getHolder)
		holders.PUT("/:id", h.updateHolder)
		holders.DELETE("/:id", h.retireHolder)
	}
	registerLedgerRoutes(holders, ledgerService)
}

func (h *holderHandler) createHolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create holder request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	holder, err := h.holderService.CreateHolder(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "create holder")
		return
	}

	logger.Info("Holder created", slog.String("holder_id", holder.HolderID))
	c.JSON(http.StatusCreated, dto.ToHolderResponse(holder))
}

func (h *holderHandler) getHolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	holder, err := h.holderService.GetHolderByID(c.Request.Context(), holderID)
	if err != nil {
		respondError(c, logger, err, "retrieve holder")
		return
	}
	c.JSON(http.StatusOK, dto.ToHolderResponse(holder))
}

func (h *holderHandler) listHolders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListHoldersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	holders, err := h.holderService.ListHolders(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list holders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"holders": dto.ToListHolderResponse(holders)})
}

func (h *holderHandler) updateHolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	var req dto.UpdateHolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update holder request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updaterID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	holder, err := h.holderService.UpdateHolder(c.Request.Context(), holderID, req, updaterID)
	if err != nil {
		respondError(c, logger, err, "update holder")
		return
	}

	logger.Info("Holder updated", slog.String("holder_id", holderID))
	c.JSON(http.StatusOK, dto.ToHolderResponse(holder))
}

// retireHolder soft-retires a holder. History stays; only new ledger
// activity is blocked.
func (h *holderHandler) retireHolder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	updaterID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	if err := h.holderService.RetireHolder(c.Request.Context(), holderID, updaterID); err != nil {
		respondError(c, logger, err, "retire holder")
		return
	}

	logger.Info("Holder retired", slog.String("holder_id", holderID))
	c.Status(http.StatusNoContent)
}
