package repositories

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// AccountReader provides point-in-time snapshot reads of accounts. Reads do
// not participate in any pending unit of work.
type AccountReader interface {
	// FindAccountByID returns the account or apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountByNumber resolves the human-facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	// ListAccountsByOwner returns the owner's accounts, newest first.
	ListAccountsByOwner(ctx context.Context, ownerUserID string, limit, offset int) ([]domain.Account, error)
}

// AccountRepository persists accounts. Balance mutation is deliberately
// absent here: balances change only through LedgerRepository's exclusive
// unit of work.
type AccountRepository interface {
	AccountReader
	// SaveAccount inserts a new account. A duplicate id or account number
	// fails with apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
}
