package dto

import (
	"time"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// CreateLoanRequest defines the data needed to request a loan.
// InterestRate and DurationMonths fall back to the product defaults
// (10.00% and 12 months) when omitted.
type CreateLoanRequest struct {
	Principal      string  `json:"principal" binding:"required,money"`
	InterestRate   *string `json:"interestRate,omitempty"`
	DurationMonths *int    `json:"durationMonths,omitempty"`
}

// LoanRepaymentRequest defines a payment against an approved loan.
type LoanRepaymentRequest struct {
	Amount string `json:"amount" binding:"required,money"`
}

// LoanResponse defines the data returned for a loan.
type LoanResponse struct {
	LoanID         string            `json:"loanID"`
	BorrowerUserID string            `json:"borrowerUserID"`
	Principal      string            `json:"principal"`
	InterestRate   string            `json:"interestRate"`
	DurationMonths int               `json:"durationMonths"`
	Status         domain.LoanStatus `json:"status"`
	ReviewerUserID *string           `json:"reviewerUserID,omitempty"`
	ReviewedAt     *time.Time        `json:"reviewedAt,omitempty"`
	AmountDue      string            `json:"amountDue"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ToLoanResponse converts a domain.Loan to its response DTO.
func ToLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:         loan.LoanID,
		BorrowerUserID: loan.BorrowerUserID,
		Principal:      loan.Principal.String(),
		InterestRate:   loan.InterestRate.StringFixed(2),
		DurationMonths: loan.DurationMonths,
		Status:         loan.Status,
		ReviewerUserID: loan.ReviewerUserID,
		ReviewedAt:     loan.ReviewedAt,
		AmountDue:      loan.AmountDue.String(),
		CreatedAt:      loan.CreatedAt,
	}
}

// ListLoansParams defines query parameters for listing loans.
type ListLoansParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListLoansResponse wraps a borrower's loans.
type ListLoansResponse struct {
	Loans []LoanResponse `json:"loans"`
}

// ToListLoansResponse converts a slice of loans.
func ToListLoansResponse(loans []domain.Loan) ListLoansResponse {
	res := make([]LoanResponse, len(loans))
	for i := range loans {
		res[i] = ToLoanResponse(&loans[i])
	}
	return ListLoansResponse{Loans: res}
}
