package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
)

// incomeHandler handles HTTP requests for the income workflow.
type incomeHandler struct {
	incomeService portssvc.IncomeSvcFacade
}

func newIncomeHandler(is portssvc.IncomeSvcFacade) *incomeHandler {
	return &incomeHandler{incomeService: is}
}

// registerIncomeRoutes registers all income-related routes.
func registerIncomeRoutes(rg *gin.RouterGroup, incomeService portssvc.IncomeSvcFacade) {
	h := newIncomeHandler(incomeService)

	incomes := rg.Group("/incomes")
	{
		incomes.POST("", h.createIncome)
		incomes.GET("", h.listIncomes)
		incomes.GET("/:id", h.getIncome)
		incomes.POST("/:id/confirm", h.confirmIncome)
		incomes.POST("/:id/reject", h.rejectIncome)
	}
}

func (h *incomeHandler) createIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create income request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	income, err := h.incomeService.CreateIncome(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "create income")
		return
	}

	logger.Info("Income created", slog.String("income_id", income.IncomeID))
	c.JSON(http.StatusCreated, dto.ToIncomeResponse(income))
}

func (h *incomeHandler) getIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	income, err := h.incomeService.GetIncomeByID(c.Request.Context(), incomeID)
	if err != nil {
		respondError(c, logger, err, "retrieve income")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncomeResponse(income))
}

func (h *incomeHandler) listIncomes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListIncomesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.incomeService.ListIncomes(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list incomes")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *incomeHandler) confirmIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	approverID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	income, err := h.incomeService.ConfirmIncome(c.Request.Context(), incomeID, approverID)
	if err != nil {
		respondError(c, logger, err, "confirm income")
		return
	}

	logger.Info("Income confirmed", slog.String("income_id", incomeID))
	c.JSON(http.StatusOK, dto.ToIncomeResponse(income))
}

func (h *incomeHandler) rejectIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	incomeID := c.Param("id")

	approverID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	income, err := h.incomeService.RejectIncome(c.Request.Context(), incomeID, approverID)
	if err != nil {
		respondError(c, logger, err, "reject income")
		return
	}

	logger.Info("Income rejected", slog.String("income_id", incomeID))
	c.JSON(http.StatusOK, dto.ToIncomeResponse(income))
}
