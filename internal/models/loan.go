package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the persistence representation of a loan application row.
type Loan struct {
	LoanID         string          `db:"loan_id"`
	BorrowerUserID string          `db:"borrower_user_id"`
	Principal      decimal.Decimal `db:"principal"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	DurationMonths int             `db:"duration_months"`
	Status         string          `db:"status"`
	ReviewerUserID *string         `db:"reviewer_user_id"`
	ReviewedAt     *time.Time      `db:"reviewed_at"`
	AmountDue      decimal.Decimal `db:"amount_due"`
	AuditFields
}
