package repositories

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// LoanRepository persists loans and their review transitions.
type LoanRepository interface {
	// SaveLoan inserts a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error
	// FindLoanByID returns the loan or apperrors.ErrNotFound.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	// ListLoansByBorrower returns the borrower's loans, newest first.
	ListLoansByBorrower(ctx context.Context, borrowerUserID string, limit, offset int) ([]domain.Loan, error)
	// TransitionLoanWithAudit persists the loan's new state and appends the
	// audit entry in one atomic unit of work, guarded by a compare-and-swap
	// on expectedStatus: if the stored status no longer matches, nothing is
	// written and apperrors.ErrInvalidTransition is returned.
	TransitionLoanWithAudit(ctx context.Context, loan domain.Loan, expectedStatus domain.LoanStatus, entry domain.AuditLogEntry) error
	// DecrementLoanAmountDue atomically reduces the outstanding amount of an
	// Approved loan by amount, flooring at zero, and returns the updated
	// loan. The decrement and the floor are applied in the store as one
	// operation so concurrent repayments cannot overwrite each other. A loan
	// that is not Approved fails with apperrors.ErrInvalidTransition.
	DecrementLoanAmountDue(ctx context.Context, loanID string, amount domain.Money) (*domain.Loan, error)
}
