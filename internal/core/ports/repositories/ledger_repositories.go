package repositories

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
)

// LedgerUnitOfWork is the transaction-scoped surface handed to the body of
// WithAccountsForUpdate. Everything staged through it commits atomically
// with the balance changes when the body returns nil, and is discarded
// entirely otherwise.
type LedgerUnitOfWork interface {
	// UpdateAccountBalance stages the account's new balance (and audit
	// fields) for commit. The account must be one of the locked accounts.
	UpdateAccountBalance(ctx context.Context, account *domain.Account) error
	// SaveTransaction stages a ledger entry. Saving an id that already
	// exists updates the processed flag monotonically (false -> true only).
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	// FindTransactionForUpdate reads a transaction with exclusive access so
	// the processed flag can be checked race-free inside the unit of work.
	// Returns apperrors.ErrNotFound when the id has never been stored.
	FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// AppendAuditEntry stages an append-only audit record. A failure here
	// aborts the enclosing unit of work.
	AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error
}

// LedgerRepository is the durable store behind the ledger engine.
type LedgerRepository interface {
	// WithAccountsForUpdate runs body within one atomic unit of work holding
	// exclusive access to every account in accountIDs. Locks are acquired in
	// ascending account-id order regardless of the order supplied, before
	// any balance is read. body receives freshly read, mutable copies of the
	// accounts keyed by id. If any account is missing the call fails with
	// apperrors.ErrNotFound without invoking body. A non-nil error from body
	// discards all staged changes; commit failures surface as
	// apperrors.ErrStorage.
	WithAccountsForUpdate(ctx context.Context, accountIDs []string, body func(ctx context.Context, uow LedgerUnitOfWork, accounts map[string]*domain.Account) error) error

	// FindTransactionByID returns the ledger entry or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	// ListTransactionsByAccount returns entries where the account is source
	// or destination, newest first.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}
