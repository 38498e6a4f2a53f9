// Package memory provides an in-process implementation of the repository
// ports. It backs the service test suites and keeps the same locking
// discipline as the SQL store: exclusive access to accounts is taken in
// ascending account-id order, and units of work apply all staged writes or
// none of them.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/core/services"
)

// accountSlot is one stored account together with its exclusive-access lock.
type accountSlot struct {
	mu      sync.Mutex
	account domain.Account
}

// Store holds all four stores behind one process-local state. The zero value
// is not usable; create one with NewStore.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*accountSlot
	numberIndex  map[string]string // account number -> account id
	transactions map[string]domain.Transaction
	loans        map[string]domain.Loan
	auditLog     []domain.AuditLogEntry

	commitErr error
	auditErr  error
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*accountSlot),
		numberIndex:  make(map[string]string),
		transactions: make(map[string]domain.Transaction),
		loans:        make(map[string]domain.Loan),
	}
}

// Repositories exposes the store as the repository set the service container
// expects.
func (s *Store) Repositories() services.Repositories {
	return services.Repositories{
		Account: s,
		Ledger:  s,
		Loan:    s,
		Audit:   s,
	}
}

// SetCommitFailure makes every subsequent unit-of-work commit fail with err
// after the body has run, discarding all staged writes. Pass nil to clear.
func (s *Store) SetCommitFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitErr = err
}

// SetAuditFailure makes every subsequent AppendAuditEntry fail with err,
// aborting the enclosing unit of work. Pass nil to clear.
func (s *Store) SetAuditFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditErr = err
}

var _ portsrepo.AccountRepository = (*Store)(nil)
var _ portsrepo.LedgerRepository = (*Store)(nil)
var _ portsrepo.LoanRepository = (*Store)(nil)
var _ portsrepo.AuditRepository = (*Store)(nil)

// SaveAccount inserts a new account.
func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	if _, ok := s.numberIndex[account.AccountNumber]; ok {
		return fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
	}
	s.accounts[account.AccountID] = &accountSlot{account: account}
	s.numberIndex[account.AccountNumber] = account.AccountID
	return nil
}

// FindAccountByID returns a snapshot copy of the account.
func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	slot, ok := s.accounts[accountID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	slot.mu.Lock()
	account := slot.account
	slot.mu.Unlock()
	return &account, nil
}

// FindAccountByNumber resolves the public account number.
func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.Lock()
	id, ok := s.numberIndex[accountNumber]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: account number %s", apperrors.ErrNotFound, accountNumber)
	}
	return s.FindAccountByID(ctx, id)
}

// ListAccountsByOwner returns the owner's accounts, newest first.
func (s *Store) ListAccountsByOwner(_ context.Context, ownerUserID string, limit, offset int) ([]domain.Account, error) {
	// Snapshot the slot pointers first. Slot locks are never taken while
	// holding the store lock; units of work hold slot locks and then take
	// the store lock, so the reverse order here would deadlock.
	s.mu.Lock()
	slots := make([]*accountSlot, 0, len(s.accounts))
	for _, slot := range s.accounts {
		slots = append(slots, slot)
	}
	s.mu.Unlock()

	matched := make([]domain.Account, 0)
	for _, slot := range slots {
		slot.mu.Lock()
		account := slot.account
		slot.mu.Unlock()
		if account.OwnerUserID == ownerUserID {
			matched = append(matched, account)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].AccountID < matched[j].AccountID
	})
	return paginate(matched, limit, offset), nil
}

// WithAccountsForUpdate locks the requested accounts in ascending id order,
// runs body against mutable copies, and applies the staged writes only when
// body succeeds and no commit failure is injected.
func (s *Store) WithAccountsForUpdate(ctx context.Context, accountIDs []string, body func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error) error {
	ids := dedupeSorted(accountIDs)
	if len(ids) == 0 {
		return fmt.Errorf("%w: no accounts to lock", apperrors.ErrValidation)
	}

	s.mu.Lock()
	slots := make([]*accountSlot, 0, len(ids))
	for _, id := range ids {
		slot, ok := s.accounts[id]
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		slots = append(slots, slot)
	}
	s.mu.Unlock()

	// ids is sorted, so slot locks are always taken in the same global order.
	for _, slot := range slots {
		slot.mu.Lock()
	}
	defer func() {
		for i := len(slots) - 1; i >= 0; i-- {
			slots[i].mu.Unlock()
		}
	}()

	copies := make(map[string]*domain.Account, len(ids))
	for i, id := range ids {
		account := slots[i].account
		copies[id] = &account
	}

	uow := &memUnitOfWork{store: s}
	if err := body(ctx, uow, copies); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.commitErr != nil {
		return apperrors.NewStorageError("failed to commit unit of work", s.commitErr)
	}

	for _, updated := range uow.balanceUpdates {
		for i, id := range ids {
			if id == updated.AccountID {
				slots[i].account = updated
			}
		}
	}
	for _, txn := range uow.stagedTxns {
		if prior, ok := s.transactions[txn.TransactionID]; ok && prior.Processed {
			txn.Processed = true
		}
		s.transactions[txn.TransactionID] = txn
	}
	s.auditLog = append(s.auditLog, uow.stagedAudits...)
	return nil
}

// FindTransactionByID returns the ledger entry or apperrors.ErrNotFound.
func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

// ListTransactionsByAccount returns entries touching the account as source
// or destination, newest first.
func (s *Store) ListTransactionsByAccount(_ context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	s.mu.Lock()
	matched := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.SourceAccountID == accountID ||
			(txn.DestinationAccountID != nil && *txn.DestinationAccountID == accountID) {
			matched = append(matched, txn)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].TransactionID < matched[j].TransactionID
	})
	return paginate(matched, limit, offset), nil
}

// SaveLoan inserts a new loan application.
func (s *Store) SaveLoan(_ context.Context, loan domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.loans[loan.LoanID]; ok {
		return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, loan.LoanID)
	}
	s.loans[loan.LoanID] = loan
	return nil
}

// FindLoanByID returns the loan or apperrors.ErrNotFound.
func (s *Store) FindLoanByID(_ context.Context, loanID string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	return &loan, nil
}

// ListLoansByBorrower returns the borrower's loans, newest first.
func (s *Store) ListLoansByBorrower(_ context.Context, borrowerUserID string, limit, offset int) ([]domain.Loan, error) {
	s.mu.Lock()
	matched := make([]domain.Loan, 0)
	for _, loan := range s.loans {
		if loan.BorrowerUserID == borrowerUserID {
			matched = append(matched, loan)
		}
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].LoanID < matched[j].LoanID
	})
	return paginate(matched, limit, offset), nil
}

// TransitionLoanWithAudit applies the state change and appends the audit
// entry atomically, guarded by a compare-and-swap on expectedStatus.
func (s *Store) TransitionLoanWithAudit(_ context.Context, loan domain.Loan, expectedStatus domain.LoanStatus, entry domain.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.loans[loan.LoanID]
	if !ok {
		return fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loan.LoanID)
	}
	if stored.Status != expectedStatus {
		return fmt.Errorf("%w: loan %s is no longer %s", apperrors.ErrInvalidTransition, loan.LoanID, expectedStatus)
	}
	if s.auditErr != nil {
		return apperrors.NewStorageError("failed to append audit entry", s.auditErr)
	}
	s.loans[loan.LoanID] = loan
	s.auditLog = append(s.auditLog, entry)
	return nil
}

// DecrementLoanAmountDue atomically reduces the outstanding amount of an
// approved loan, flooring at zero. The subtraction runs under the store lock
// so concurrent repayments cannot overwrite each other.
func (s *Store) DecrementLoanAmountDue(_ context.Context, loanID string, amount domain.Money) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loan, ok := s.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrNotFound, loanID)
	}
	if loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("%w: loan %s is %s, expected %s", apperrors.ErrInvalidTransition, loanID, loan.Status, domain.LoanApproved)
	}

	remaining, err := loan.AmountDue.Sub(amount)
	if err != nil {
		// Overpayments floor at zero rather than failing.
		remaining = domain.ZeroMoney()
	}
	loan.AmountDue = remaining
	loan.LastUpdatedAt = time.Now().UTC()
	loan.LastUpdatedBy = loan.BorrowerUserID
	s.loans[loanID] = loan
	return &loan, nil
}

// ListAuditEntries returns audit entries newest first, optionally filtered
// by actor.
func (s *Store) ListAuditEntries(_ context.Context, actorUserID *string, limit, offset int) ([]domain.AuditLogEntry, error) {
	s.mu.Lock()
	matched := make([]domain.AuditLogEntry, 0, len(s.auditLog))
	for _, entry := range s.auditLog {
		if actorUserID != nil && (entry.ActorUserID == nil || *entry.ActorUserID != *actorUserID) {
			continue
		}
		matched = append(matched, entry)
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, limit, offset), nil
}

// memUnitOfWork buffers writes until WithAccountsForUpdate commits them.
type memUnitOfWork struct {
	store          *Store
	balanceUpdates []domain.Account
	stagedTxns     []domain.Transaction
	stagedAudits   []domain.AuditLogEntry
}

var _ portsrepo.LedgerUnitOfWork = (*memUnitOfWork)(nil)

func (u *memUnitOfWork) UpdateAccountBalance(_ context.Context, account *domain.Account) error {
	u.balanceUpdates = append(u.balanceUpdates, *account)
	return nil
}

func (u *memUnitOfWork) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	u.stagedTxns = append(u.stagedTxns, txn)
	return nil
}

func (u *memUnitOfWork) FindTransactionForUpdate(_ context.Context, transactionID string) (*domain.Transaction, error) {
	for i := len(u.stagedTxns) - 1; i >= 0; i-- {
		if u.stagedTxns[i].TransactionID == transactionID {
			txn := u.stagedTxns[i]
			return &txn, nil
		}
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	txn, ok := u.store.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &txn, nil
}

func (u *memUnitOfWork) AppendAuditEntry(_ context.Context, entry domain.AuditLogEntry) error {
	u.store.mu.Lock()
	auditErr := u.store.auditErr
	u.store.mu.Unlock()
	if auditErr != nil {
		return apperrors.NewStorageError("failed to append audit entry", auditErr)
	}
	u.stagedAudits = append(u.stagedAudits, entry)
	return nil
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
