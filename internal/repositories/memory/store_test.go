package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *memory.Store, id, number, balance string) {
	t.Helper()
	bal, err := domain.ParseMoney(balance)
	require.NoError(t, err)
	require.NoError(t, store.SaveAccount(context.Background(), domain.Account{
		AccountID:     id,
		OwnerUserID:   "owner-" + id,
		AccountNumber: number,
		AccountType:   domain.Savings,
		Balance:       bal,
		IsActive:      true,
		AuditFields:   domain.AuditFields{CreatedAt: time.Now().UTC()},
	}))
}

func TestSaveAccount_Duplicate(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "0.00")

	err := store.SaveAccount(context.Background(), domain.Account{AccountID: "a1", AccountNumber: "222"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	err = store.SaveAccount(context.Background(), domain.Account{AccountID: "a2", AccountNumber: "111"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestWithAccountsForUpdate_MissingAccount(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "0.00")

	err := store.WithAccountsForUpdate(context.Background(), []string{"a1", "ghost"},
		func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
			t.Fatal("body must not run when an account is missing")
			return nil
		})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithAccountsForUpdate_BodyErrorDiscardsWrites(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "50.00")

	bodyErr := errors.New("changed my mind")
	err := store.WithAccountsForUpdate(context.Background(), []string{"a1"},
		func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
			acc := accounts["a1"]
			acc.Balance = acc.Balance.Add(mustMoney(t, "10.00"))
			require.NoError(t, uow.UpdateAccountBalance(ctx, acc))
			require.NoError(t, uow.SaveTransaction(ctx, domain.Transaction{TransactionID: "t1", SourceAccountID: "a1"}))
			return bodyErr
		})
	assert.ErrorIs(t, err, bodyErr)

	account, err := store.FindAccountByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", account.Balance.String())

	_, err = store.FindTransactionByID(context.Background(), "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithAccountsForUpdate_CommitFailureDiscardsWrites(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "50.00")

	store.SetCommitFailure(errors.New("boom"))
	err := store.WithAccountsForUpdate(context.Background(), []string{"a1"},
		func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
			acc := accounts["a1"]
			acc.Balance = acc.Balance.Add(mustMoney(t, "10.00"))
			return uow.UpdateAccountBalance(ctx, acc)
		})
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	store.SetCommitFailure(nil)

	account, err := store.FindAccountByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", account.Balance.String())
}

func TestWithAccountsForUpdate_CopiesDoNotLeak(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "50.00")

	// Mutating the handed-out copy without staging it must not change the
	// stored account.
	err := store.WithAccountsForUpdate(context.Background(), []string{"a1"},
		func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
			accounts["a1"].Balance = accounts["a1"].Balance.Add(mustMoney(t, "99.00"))
			return nil
		})
	require.NoError(t, err)

	account, err := store.FindAccountByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "50.00", account.Balance.String())
}

func TestSaveTransaction_ProcessedIsMonotonic(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "0.00")

	write := func(processed bool) error {
		return store.WithAccountsForUpdate(context.Background(), []string{"a1"},
			func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
				return uow.SaveTransaction(ctx, domain.Transaction{
					TransactionID:   "t1",
					Kind:            domain.Deposit,
					SourceAccountID: "a1",
					Processed:       processed,
				})
			})
	}

	require.NoError(t, write(true))
	// A later write with processed=false cannot clear the flag.
	require.NoError(t, write(false))

	txn, err := store.FindTransactionByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, txn.Processed)
}

func TestListAccountsByOwner_ConcurrentWithUnitOfWork(t *testing.T) {
	store := memory.NewStore()
	seedAccount(t, store, "a1", "111", "100.00")
	seedAccount(t, store, "a2", "222", "100.00")

	// The unit of work holds slot locks and then takes the store lock
	// (FindTransactionForUpdate, commit). Listing must therefore never take
	// a slot lock while holding the store lock, or the two paths deadlock.
	const iterations = 50000
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				err := store.WithAccountsForUpdate(context.Background(), []string{"a1", "a2"},
					func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
						if _, err := uow.FindTransactionForUpdate(ctx, "never-stored"); !errors.Is(err, apperrors.ErrNotFound) {
							return err
						}
						return uow.UpdateAccountBalance(ctx, accounts["a1"])
					})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				if _, err := store.ListAccountsByOwner(context.Background(), "owner-a1", 10, 0); err != nil {
					t.Error(err)
					return
				}
			}
		}()
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("listing deadlocked against a concurrent unit of work")
	}
}

func TestDecrementLoanAmountDue_ConcurrentRepayments(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SaveLoan(ctx, domain.Loan{
		LoanID:         "l1",
		BorrowerUserID: "user-1",
		Principal:      mustMoney(t, "1000.00"),
		Status:         domain.LoanApproved,
		AmountDue:      mustMoney(t, "1100.00"),
	}))

	const repayments = 20
	amount := mustMoney(t, "10.00")
	var wg sync.WaitGroup
	for i := 0; i < repayments; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.DecrementLoanAmountDue(ctx, "l1", amount)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loan, err := store.FindLoanByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "900.00", loan.AmountDue.String())
}

func TestDecrementLoanAmountDue_RequiresApproved(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.SaveLoan(ctx, domain.Loan{
		LoanID:    "l1",
		Status:    domain.LoanPending,
		AmountDue: mustMoney(t, "110.00"),
	}))

	_, err := store.DecrementLoanAmountDue(ctx, "l1", mustMoney(t, "10.00"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = store.DecrementLoanAmountDue(ctx, "ghost", mustMoney(t, "10.00"))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTransitionLoanWithAudit_CAS(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	loan := domain.Loan{
		LoanID:         "l1",
		BorrowerUserID: "user-1",
		Principal:      mustMoney(t, "100.00"),
		Status:         domain.LoanPending,
		AmountDue:      mustMoney(t, "110.00"),
	}
	require.NoError(t, store.SaveLoan(ctx, loan))

	approved := loan
	approved.Status = domain.LoanApproved
	entry := domain.AuditLogEntry{EntryID: "e1", Action: domain.AuditLoanApprove, CreatedAt: time.Now().UTC()}

	require.NoError(t, store.TransitionLoanWithAudit(ctx, approved, domain.LoanPending, entry))

	// The guard no longer matches, so a second identical transition fails
	// and appends nothing.
	err := store.TransitionLoanWithAudit(ctx, approved, domain.LoanPending, domain.AuditLogEntry{EntryID: "e2"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	entries, err := store.ListAuditEntries(ctx, nil, 10, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s)
	require.NoError(t, err)
	return m
}
