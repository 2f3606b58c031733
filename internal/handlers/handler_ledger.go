package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
)

// ledgerHandler handles HTTP requests for per-holder balance chains.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the ledger endpoints under /holders/:id.
func registerLedgerRoutes(holders *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	holders.GET("/:id/balance", h.getBalance)
	holders.GET("/:id/ledger", h.getLedgerHistory)
	holders.GET("/:id/ledger/verify", h.verifyChain)
	holders.POST("/:id/adjustments", h.createAdjustment)
}

func (h *ledgerHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), holderID)
	if err != nil {
		respondError(c, logger, err, "retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{HolderID: holderID, Balance: balance})
}

func (h *ledgerHandler) getLedgerHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	var params dto.LedgerHistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	history, err := h.ledgerService.GetLedgerHistory(c.Request.Context(), holderID, params)
	if err != nil {
		respondError(c, logger, err, "retrieve ledger history")
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *ledgerHandler) verifyChain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	result, err := h.ledgerService.VerifyChain(c.Request.Context(), holderID)
	if err != nil {
		respondError(c, logger, err, "verify ledger chain")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ledgerHandler) createAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	holderID := c.Param("id")

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adjustment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	entry, err := h.ledgerService.CreateManualAdjustment(c.Request.Context(), holderID, req, actorID)
	if err != nil {
		respondError(c, logger, err, "create adjustment")
		return
	}

	logger.Info("Adjustment created", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}
