package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := &loanHandler{loanService: loanService}

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:id", h.getLoan)
		loans.POST("/:id/approve", h.approveLoan)
		loans.POST("/:id/reject", h.rejectLoan)
		loans.POST("/:id/repay", h.repayLoan)
		loans.POST("/:id/repayments", h.recordRepayment)
	}
}

func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	borrowerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, borrowerUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create loan")
		return
	}

	logger.Info("Loan created", slog.String("loan_id", loan.LoanID), slog.String("borrower_user_id", borrowerUserID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("loan_id", loanID)), err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	borrowerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.loanService.ListLoansByBorrower(c.Request.Context(), borrowerUserID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *loanHandler) approveLoan(c *gin.Context) {
	h.review(c, h.loanService.Approve, "Failed to approve loan")
}

func (h *loanHandler) rejectLoan(c *gin.Context) {
	h.review(c, h.loanService.Reject, "Failed to reject loan")
}

// review runs one of the reviewer-driven transitions with the caller as
// reviewer.
func (h *loanHandler) review(c *gin.Context, transition func(ctx context.Context, loanID, reviewerUserID string) (*domain.Loan, error), fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	reviewerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID), slog.String("reviewer_user_id", reviewerUserID))
	loan, err := transition(c.Request.Context(), loanID, reviewerUserID)
	if err != nil {
		respondServiceError(c, logger, err, fallbackMsg)
		return
	}

	logger.Info("Loan transitioned", slog.String("status", string(loan.Status)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func (h *loanHandler) repayLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	logger = logger.With(slog.String("loan_id", loanID))
	loan, err := h.loanService.MarkRepaid(c.Request.Context(), loanID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to mark loan repaid")
		return
	}

	logger.Info("Loan marked repaid")
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// recordRepayment applies a partial payment against an approved loan. The
// loan flips to repaid through repayLoan once the balance is cleared.
func (h *loanHandler) recordRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	var req dto.LoanRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for LoanRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to parse amount")
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))
	loan, err := h.loanService.ReduceAmountDue(c.Request.Context(), loanID, amount)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record repayment")
		return
	}

	logger.Info("Loan repayment recorded", slog.String("amount", amount.String()), slog.String("amount_due", loan.AmountDue.String()))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
