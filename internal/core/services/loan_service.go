package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/middleware"
)

// Product defaults applied when a loan request omits terms.
var (
	defaultInterestRate   = decimal.NewFromFloat(10.00)
	defaultDurationMonths = 12
)

// loanService is the loan review state machine. Transitions are single-step
// atomic updates sharing the audit-logging contract with the ledger engine.
type loanService struct {
	loanRepo portsrepo.LoanRepository
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepository) portssvc.LoanSvcFacade {
	return &loanService{loanRepo: loanRepo}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan records a Pending loan request for the borrower.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, borrowerUserID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	principal, err := domain.ParseMoney(req.Principal)
	if err != nil {
		return nil, err
	}
	if !principal.IsPositive() {
		return nil, fmt.Errorf("%w: principal %s", apperrors.ErrNonPositiveAmount, principal)
	}

	rate := defaultInterestRate
	if req.InterestRate != nil {
		rate, err = decimal.NewFromString(*req.InterestRate)
		if err != nil {
			return nil, fmt.Errorf("%w: interest rate %q", apperrors.ErrInvalidAmount, *req.InterestRate)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: interest rate must not be negative", apperrors.ErrValidation)
		}
	}

	months := defaultDurationMonths
	if req.DurationMonths != nil {
		months = *req.DurationMonths
		if months <= 0 {
			return nil, fmt.Errorf("%w: duration must be at least one month", apperrors.ErrValidation)
		}
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		BorrowerUserID: borrowerUserID,
		Principal:      principal,
		InterestRate:   rate,
		DurationMonths: months,
		Status:         domain.LoanPending,
		AmountDue:      totalRepayable(principal, rate, months),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     borrowerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: borrowerUserID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()), slog.String("borrower_user_id", borrowerUserID))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	logger.Info("Loan created",
		slog.String("loan_id", loan.LoanID),
		slog.String("borrower_user_id", borrowerUserID),
		slog.String("principal", principal.String()),
	)
	return &loan, nil
}

// GetLoanByID returns a point-in-time snapshot of the loan.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.loanRepo.FindLoanByID(ctx, loanID)
}

// ListLoansByBorrower returns the borrower's loans, newest first.
func (s *loanService) ListLoansByBorrower(ctx context.Context, borrowerUserID string, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	loans, err := s.loanRepo.ListLoansByBorrower(ctx, borrowerUserID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for borrower %s: %w", borrowerUserID, err)
	}

	resp := dto.ToListLoansResponse(loans)
	return &resp, nil
}

// Approve moves a Pending loan to Approved and appends a loan_approve audit
// entry attributed to the borrower, naming the reviewer.
func (s *loanService) Approve(ctx context.Context, loanID, reviewerUserID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, reviewerUserID, domain.LoanApproved, domain.AuditLoanApprove, "approved")
}

// Reject moves a Pending loan to Rejected.
func (s *loanService) Reject(ctx context.Context, loanID, reviewerUserID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, reviewerUserID, domain.LoanRejected, domain.AuditLoanReject, "rejected")
}

// MarkRepaid moves an Approved loan to Repaid and zeroes the outstanding
// amount.
func (s *loanService) MarkRepaid(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, "", domain.LoanRepaid, domain.AuditLoanRepay, "marked as repaid")
}

// ReduceAmountDue decrements the outstanding amount, flooring at zero. This
// is bookkeeping, not a state-machine transition: the loan stays Approved
// until MarkRepaid. The decrement itself is applied atomically by the store,
// so concurrent repayments never lose an update.
func (s *loanService) ReduceAmountDue(ctx context.Context, loanID string, amount domain.Money) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrNonPositiveAmount, amount)
	}

	loan, err := s.loanRepo.DecrementLoanAmountDue(ctx, loanID, amount)
	if err != nil {
		return nil, err
	}

	logger.Info("Loan amount due reduced",
		slog.String("loan_id", loanID),
		slog.String("amount", amount.String()),
		slog.String("remaining", loan.AmountDue.String()),
	)
	return loan, nil
}

// transition performs one legal state-machine step and appends exactly one
// audit entry in the same unit of work, guarded by a compare-and-swap on the
// expected prior status.
func (s *loanService) transition(ctx context.Context, loanID, reviewerUserID string, next domain.LoanStatus, action domain.AuditAction, verb string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	expected := loan.Status
	if !expected.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: loan %s is %s, cannot move to %s", apperrors.ErrInvalidTransition, loanID, expected, next)
	}

	now := time.Now().UTC()
	loan.Status = next
	loan.LastUpdatedAt = now
	switch next {
	case domain.LoanApproved, domain.LoanRejected:
		loan.ReviewedAt = &now
		if reviewerUserID != "" {
			loan.ReviewerUserID = &reviewerUserID
			loan.LastUpdatedBy = reviewerUserID
		}
	case domain.LoanRepaid:
		loan.AmountDue = domain.ZeroMoney()
		loan.LastUpdatedBy = loan.BorrowerUserID
	}

	reviewer := reviewerUserID
	if reviewer == "" {
		reviewer = "system"
	}
	entry := newAuditEntry(action, loan.BorrowerUserID, now,
		fmt.Sprintf("Loan %s %s by %s", loanID, verb, reviewer))

	if err := s.loanRepo.TransitionLoanWithAudit(ctx, *loan, expected, entry); err != nil {
		logger.Warn("Loan transition failed",
			slog.String("loan_id", loanID),
			slog.String("next_status", string(next)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	logger.Info("Loan transitioned",
		slog.String("loan_id", loanID),
		slog.String("status", string(next)),
	)
	return loan, nil
}

// totalRepayable computes principal plus simple interest over the loan term.
func totalRepayable(principal domain.Money, annualRatePercent decimal.Decimal, months int) domain.Money {
	factor := annualRatePercent.
		Mul(decimal.NewFromInt(int64(months))).
		Div(decimal.NewFromInt(100 * 12))
	return principal.Add(principal.Mul(factor))
}
