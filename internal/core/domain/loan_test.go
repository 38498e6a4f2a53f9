package domain_test

import (
	"testing"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	statuses := []domain.LoanStatus{
		domain.LoanPending,
		domain.LoanApproved,
		domain.LoanRejected,
		domain.LoanRepaid,
	}

	legal := map[domain.LoanStatus][]domain.LoanStatus{
		domain.LoanPending:  {domain.LoanApproved, domain.LoanRejected},
		domain.LoanApproved: {domain.LoanRepaid},
	}

	for _, from := range statuses {
		allowed := legal[from]
		for _, to := range statuses {
			expected := false
			for _, a := range allowed {
				if a == to {
					expected = true
				}
			}
			assert.Equal(t, expected, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestLoanStatus_NoSelfTransition(t *testing.T) {
	for _, s := range []domain.LoanStatus{domain.LoanPending, domain.LoanApproved, domain.LoanRejected, domain.LoanRepaid} {
		assert.False(t, s.CanTransitionTo(s), "%s -> %s", s, s)
	}
}
