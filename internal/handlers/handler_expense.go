package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alfurqan-institute/cashfloat_backend/internal/core/domain"
	portssvc "github.com/alfurqan-institute/cashfloat_backend/internal/core/ports/services"
	"github.com/alfurqan-institute/cashfloat_backend/internal/dto"
	"github.com/alfurqan-institute/cashfloat_backend/internal/middleware"
)

// expenseHandler handles HTTP requests for the expense workflow.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvcFacade
}

func newExpenseHandler(es portssvc.ExpenseSvcFacade) *expenseHandler {
	return &expenseHandler{expenseService: es}
}

// registerExpenseRoutes registers all expense-related routes.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvcFacade) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.GET("/:id", h.getExpense)
		expenses.POST("/:id/approve", h.approveExpense)
		expenses.POST("/:id/reject", h.rejectExpense)
		expenses.POST("/:id/reimburse", h.reimburseExpense)
		expenses.POST("/:id/cancel-reimbursement", h.cancelReimbursement)
	}
}

func (h *expenseHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, creatorID)
	if err != nil {
		respondError(c, logger, err, "create expense")
		return
	}

	logger.Info("Expense created", slog.String("expense_id", expense.ExpenseID))
	c.JSON(http.StatusCreated, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) getExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	expense, err := h.expenseService.GetExpenseByID(c.Request.Context(), expenseID)
	if err != nil {
		respondError(c, logger, err, "retrieve expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}

func (h *expenseHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListExpensesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.expenseService.ListExpenses(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "list expenses")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *expenseHandler) approveExpense(c *gin.Context) {
	h.statusChange(c, "approve expense", h.expenseService.ApproveExpense)
}

func (h *expenseHandler) rejectExpense(c *gin.Context) {
	h.statusChange(c, "reject expense", h.expenseService.RejectExpense)
}

func (h *expenseHandler) reimburseExpense(c *gin.Context) {
	h.statusChange(c, "reimburse expense", h.expenseService.ReimburseExpense)
}

func (h *expenseHandler) cancelReimbursement(c *gin.Context) {
	h.statusChange(c, "cancel reimbursement", h.expenseService.CancelReimbursement)
}

// statusChange handles the shared shape of the four transition endpoints.
func (h *expenseHandler) statusChange(c *gin.Context, action string, fn func(ctx context.Context, expenseID, actorID string) (*domain.Expense, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")

	actorID, ok := actorFromContext(c, logger)
	if !ok {
		return
	}

	expense, err := fn(c.Request.Context(), expenseID, actorID)
	if err != nil {
		respondError(c, logger, err, action)
		return
	}

	logger.Info("Expense transition applied",
		slog.String("expense_id", expenseID), slog.String("action", action))
	c.JSON(http.StatusOK, dto.ToExpenseResponse(expense))
}
