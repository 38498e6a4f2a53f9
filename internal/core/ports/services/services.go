package services

import (
	"context"

	"github.com/Fridah34/bank-management-api/internal/core/domain"
	"github.com/Fridah34/bank-management-api/internal/dto"
)

// LedgerSvcFacade is the transactional balance-mutation engine. Every
// operation executes as one atomic unit of work: exclusive access to the
// involved accounts, balance change, ledger entry and audit entries commit
// together or not at all. Callers are assumed authenticated; actorUserID is
// passed in explicitly, never read from ambient state.
type LedgerSvcFacade interface {
	Deposit(ctx context.Context, req dto.DepositRequest, actorUserID string) (*dto.TransactionResponse, error)
	Withdraw(ctx context.Context, req dto.WithdrawRequest, actorUserID string) (*dto.TransactionResponse, error)
	Transfer(ctx context.Context, req dto.TransferRequest, actorUserID string) (*dto.TransactionResponse, error)
	// RecordTransaction is the idempotency gate: an already-processed
	// transaction is a successful no-op, otherwise the transaction is
	// dispatched by kind and marked processed in the same unit of work.
	RecordTransaction(ctx context.Context, txn domain.Transaction, actorUserID string) (*dto.TransactionResponse, error)
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// AccountSvcFacade manages account lifecycle and snapshot reads.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, ownerUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerUserID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error)
}

// LoanSvcFacade is the loan review state machine. Reviewer identity is
// passed in by the caller; an empty reviewer means a system-initiated action.
type LoanSvcFacade interface {
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, borrowerUserID string) (*domain.Loan, error)
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)
	ListLoansByBorrower(ctx context.Context, borrowerUserID string, params dto.ListLoansParams) (*dto.ListLoansResponse, error)
	Approve(ctx context.Context, loanID, reviewerUserID string) (*domain.Loan, error)
	Reject(ctx context.Context, loanID, reviewerUserID string) (*domain.Loan, error)
	MarkRepaid(ctx context.Context, loanID string) (*domain.Loan, error)
	// ReduceAmountDue decrements the outstanding amount, flooring at zero.
	ReduceAmountDue(ctx context.Context, loanID string, amount domain.Money) (*domain.Loan, error)
}

// AuditSvcFacade reads the append-only audit log.
type AuditSvcFacade interface {
	ListAuditEntries(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}
