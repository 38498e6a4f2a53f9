package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the state of a loan in its review lifecycle.
type LoanStatus string

const (
	LoanPending  LoanStatus = "PENDING"
	LoanApproved LoanStatus = "APPROVED"
	LoanRejected LoanStatus = "REJECTED"
	LoanRepaid   LoanStatus = "REPAID"
)

// CanTransitionTo reports whether moving from s to next is a legal step.
// Transitions are one-directional: Pending -> {Approved, Rejected} and
// Approved -> Repaid. Rejected and Repaid are terminal.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanPending:
		return next == LoanApproved || next == LoanRejected
	case LoanApproved:
		return next == LoanRepaid
	default:
		return false
	}
}

// Loan is a borrower's loan request and its review outcome.
type Loan struct {
	LoanID         string
	BorrowerUserID string
	Principal      Money
	InterestRate   decimal.Decimal // percent per year, >= 0
	DurationMonths int
	Status         LoanStatus
	ReviewerUserID *string    // nil until reviewed
	ReviewedAt     *time.Time // set when approved or rejected
	AmountDue      Money
	AuditFields
}
