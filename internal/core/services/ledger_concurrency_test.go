package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	"github.com/Fridah34/bank-management-api/internal/core/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTransfer_ConcurrentCycle hammers a transfer cycle A->B->C->A from many
// goroutines. Because exclusive access is always taken in ascending
// account-id order, the cycle cannot deadlock, and the invariants hold: the
// combined total is conserved and no balance ever goes negative.
func TestTransfer_ConcurrentCycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewContainer(store.Repositories())

	owners := []string{"alice", "bob", "carol"}
	accountIDs := make([]string, len(owners))
	for i, owner := range owners {
		account, err := svc.Account.CreateAccount(ctx, dto.CreateAccountRequest{AccountType: domain.Checking}, owner)
		require.NoError(t, err)
		_, err = svc.Ledger.Deposit(ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: "100.00"}, owner)
		require.NoError(t, err)
		accountIDs[i] = account.AccountID
	}

	const workers = 4
	const transfersPerWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		for i := range accountIDs {
			wg.Add(1)
			source := accountIDs[i]
			dest := accountIDs[(i+1)%len(accountIDs)]
			actor := owners[i]
			go func() {
				defer wg.Done()
				for n := 0; n < transfersPerWorker; n++ {
					_, err := svc.Ledger.Transfer(ctx, dto.TransferRequest{
						SourceAccountID: source,
						Destination:     dest,
						Amount:          "7.00",
					}, actor)
					// Running dry is the only acceptable failure.
					if err != nil && !errors.Is(err, apperrors.ErrInsufficientFunds) {
						t.Errorf("unexpected transfer error: %v", err)
						return
					}
				}
			}()
		}
	}
	wg.Wait()

	total := decimal.Zero
	for _, id := range accountIDs {
		account, err := svc.Account.GetAccountByID(ctx, id)
		require.NoError(t, err)
		assert.False(t, account.Balance.Decimal().IsNegative(), "account %s went negative", id)
		total = total.Add(account.Balance.Decimal())
	}
	assert.True(t, total.Equal(decimal.NewFromInt(300)), "total %s, want 300", total)
}

// TestRecordTransaction_ConcurrentDuplicates delivers the same transaction
// from many goroutines at once; exactly one application must land.
func TestRecordTransaction_ConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewContainer(store.Repositories())

	account, err := svc.Account.CreateAccount(ctx, dto.CreateAccountRequest{AccountType: domain.Savings}, "user-1")
	require.NoError(t, err)

	txn := domain.Transaction{
		TransactionID:   "11111111-1111-1111-1111-111111111111",
		Kind:            domain.Deposit,
		Amount:          mustMoney(t, "10.00"),
		SourceAccountID: account.AccountID,
	}

	const deliveries = 16
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Ledger.RecordTransaction(ctx, txn, "user-1"); err != nil {
				t.Errorf("unexpected record error: %v", err)
			}
		}()
	}
	wg.Wait()

	refreshed, err := svc.Account.GetAccountByID(ctx, account.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", refreshed.Balance.String())
}
