package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/models"
	"github.com/Fridah34/bank-management-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `loan_id, borrower_user_id, principal, interest_rate, duration_months, status, reviewer_user_id, reviewed_at, amount_due, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepository {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepository = (*PgxLoanRepository)(nil)

// SaveLoan inserts a new loan application.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	modelLoan := mapping.ToLoanModel(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelLoan.LoanID,
		modelLoan.BorrowerUserID,
		modelLoan.Principal,
		modelLoan.InterestRate,
		modelLoan.DurationMonths,
		modelLoan.Status,
		modelLoan.ReviewerUserID,
		modelLoan.ReviewedAt,
		modelLoan.AmountDue,
		modelLoan.CreatedAt,
		modelLoan.CreatedBy,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, modelLoan.LoanID)
		}
		return apperrors.NewStorageError(fmt.Sprintf("failed to save loan %s", modelLoan.LoanID), err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`
	return scanLoanRow(r.Pool.QueryRow(ctx, query, loanID))
}

func scanLoanRow(row pgx.Row) (*domain.Loan, error) {
	var modelLoan models.Loan
	err := row.Scan(
		&modelLoan.LoanID,
		&modelLoan.BorrowerUserID,
		&modelLoan.Principal,
		&modelLoan.InterestRate,
		&modelLoan.DurationMonths,
		&modelLoan.Status,
		&modelLoan.ReviewerUserID,
		&modelLoan.ReviewedAt,
		&modelLoan.AmountDue,
		&modelLoan.CreatedAt,
		&modelLoan.CreatedBy,
		&modelLoan.LastUpdatedAt,
		&modelLoan.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("failed to find loan", err)
	}
	loan := mapping.ToLoanDomain(modelLoan)
	return &loan, nil
}

// ListLoansByBorrower returns the borrower's loans, newest first.
func (r *PgxLoanRepository) ListLoansByBorrower(ctx context.Context, borrowerUserID string, limit, offset int) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE borrower_user_id = $1
		ORDER BY created_at DESC, loan_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, borrowerUserID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list loans", err)
	}
	defer rows.Close()

	loans := make([]domain.Loan, 0)
	for rows.Next() {
		var modelLoan models.Loan
		if err := rows.Scan(
			&modelLoan.LoanID,
			&modelLoan.BorrowerUserID,
			&modelLoan.Principal,
			&modelLoan.InterestRate,
			&modelLoan.DurationMonths,
			&modelLoan.Status,
			&modelLoan.ReviewerUserID,
			&modelLoan.ReviewedAt,
			&modelLoan.AmountDue,
			&modelLoan.CreatedAt,
			&modelLoan.CreatedBy,
			&modelLoan.LastUpdatedAt,
			&modelLoan.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan loan row", err)
		}
		loans = append(loans, mapping.ToLoanDomain(modelLoan))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed reading loan rows", err)
	}
	return loans, nil
}

// TransitionLoanWithAudit applies a reviewed state change and appends its
// audit entry in one database transaction. The UPDATE is guarded by the
// expected current status; a concurrent transition makes it match zero rows,
// in which case nothing is written.
func (r *PgxLoanRepository) TransitionLoanWithAudit(ctx context.Context, loan domain.Loan, expectedStatus domain.LoanStatus, entry domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelLoan := mapping.ToLoanModel(loan)
	query := `
		UPDATE loans
		SET status = $3, reviewer_user_id = $4, reviewed_at = $5, amount_due = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE loan_id = $1 AND status = $2;
	`
	tag, err := tx.Exec(ctx, query,
		modelLoan.LoanID,
		string(expectedStatus),
		modelLoan.Status,
		modelLoan.ReviewerUserID,
		modelLoan.ReviewedAt,
		modelLoan.AmountDue,
		modelLoan.LastUpdatedAt,
		modelLoan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to transition loan %s", modelLoan.LoanID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: loan %s is no longer %s", apperrors.ErrInvalidTransition, modelLoan.LoanID, expectedStatus)
	}

	if err := insertAuditEntry(ctx, tx, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DecrementLoanAmountDue atomically reduces the outstanding amount of an
// approved loan, flooring at zero. The subtraction happens inside the UPDATE,
// so concurrent repayments serialize on the row and neither overwrites the
// other's decrement.
func (r *PgxLoanRepository) DecrementLoanAmountDue(ctx context.Context, loanID string, amount domain.Money) (*domain.Loan, error) {
	query := `
		UPDATE loans
		SET amount_due = GREATEST(amount_due - $2, 0),
		    last_updated_at = now(), last_updated_by = borrower_user_id
		WHERE loan_id = $1 AND status = $3
		RETURNING ` + loanColumns + `;
	`
	loan, err := scanLoanRow(r.Pool.QueryRow(ctx, query, loanID, amount.Decimal(), string(domain.LoanApproved)))
	if errors.Is(err, apperrors.ErrNotFound) {
		// Zero rows: either the loan does not exist or its status changed.
		if _, findErr := r.FindLoanByID(ctx, loanID); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: loan %s is not %s", apperrors.ErrInvalidTransition, loanID, domain.LoanApproved)
	}
	if err != nil {
		return nil, err
	}
	return loan, nil
}
