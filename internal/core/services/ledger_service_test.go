package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	"github.com/Fridah34/bank-management-api/internal/core/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LedgerServiceTestSuite exercises the ledger engine over the in-process
// store, which shares the locking and unit-of-work semantics of the SQL
// store.
type LedgerServiceTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *services.Container
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.svc = services.NewContainer(s.store.Repositories())
}

// newAccount opens an account and funds it via the engine so the ledger and
// audit trail stay consistent with the balance.
func (s *LedgerServiceTestSuite) newAccount(owner, funds string) *domain.Account {
	account, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{AccountType: domain.Savings}, owner)
	s.Require().NoError(err)

	if funds != "" {
		_, err = s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: funds}, owner)
		s.Require().NoError(err)
	}

	refreshed, err := s.svc.Account.GetAccountByID(s.ctx, account.AccountID)
	s.Require().NoError(err)
	return refreshed
}

func (s *LedgerServiceTestSuite) balanceOf(accountID string) string {
	account, err := s.svc.Account.GetAccountByID(s.ctx, accountID)
	s.Require().NoError(err)
	return account.Balance.String()
}

func (s *LedgerServiceTestSuite) TestDeposit_Success() {
	account := s.newAccount("user-1", "")

	resp, err := s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{
		AccountID:   account.AccountID,
		Amount:      "100.50",
		Description: "payday",
	}, "user-1")
	s.Require().NoError(err)

	s.Equal(domain.Deposit, resp.Kind)
	s.Equal("100.50", resp.Amount)
	s.Equal("100.50", resp.NewBalance)
	s.True(resp.Processed)
	s.Equal("100.50", s.balanceOf(account.AccountID))

	txn, err := s.svc.Ledger.GetTransactionByID(s.ctx, resp.TransactionID)
	s.Require().NoError(err)
	s.True(txn.Processed)
}

func (s *LedgerServiceTestSuite) TestDeposit_InvalidAmount() {
	account := s.newAccount("user-1", "")

	_, err := s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: "abc"}, "user-1")
	s.ErrorIs(err, apperrors.ErrInvalidAmount)

	_, err = s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: "-5.00"}, "user-1")
	s.ErrorIs(err, apperrors.ErrNonPositiveAmount)

	_, err = s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: "0"}, "user-1")
	s.ErrorIs(err, apperrors.ErrNonPositiveAmount)

	s.Equal("0.00", s.balanceOf(account.AccountID))
}

func (s *LedgerServiceTestSuite) TestDeposit_AccountNotFound() {
	_, err := s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: "missing", Amount: "10.00"}, "user-1")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerServiceTestSuite) TestWithdraw_Success() {
	account := s.newAccount("user-1", "50.00")

	resp, err := s.svc.Ledger.Withdraw(s.ctx, dto.WithdrawRequest{
		AccountID: account.AccountID,
		Amount:    "20.00",
	}, "user-1")
	s.Require().NoError(err)

	s.Equal("30.00", resp.NewBalance)
	s.Equal("30.00", s.balanceOf(account.AccountID))
}

func (s *LedgerServiceTestSuite) TestWithdraw_InsufficientFunds() {
	account := s.newAccount("user-1", "10.00")

	_, err := s.svc.Ledger.Withdraw(s.ctx, dto.WithdrawRequest{AccountID: account.AccountID, Amount: "10.01"}, "user-1")
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	// The failed withdrawal leaves no trace.
	s.Equal("10.00", s.balanceOf(account.AccountID))
	history, err := s.svc.Ledger.ListTransactionsByAccount(s.ctx, account.AccountID, dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Len(history.Transactions, 1) // the funding deposit only
}

func (s *LedgerServiceTestSuite) TestWithdraw_ExactBalance() {
	account := s.newAccount("user-1", "25.00")

	resp, err := s.svc.Ledger.Withdraw(s.ctx, dto.WithdrawRequest{AccountID: account.AccountID, Amount: "25.00"}, "user-1")
	s.Require().NoError(err)
	s.Equal("0.00", resp.NewBalance)
}

func (s *LedgerServiceTestSuite) TestTransfer_Success() {
	source := s.newAccount("alice", "100.00")
	dest := s.newAccount("bob", "")

	resp, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     dest.AccountID,
		Amount:          "40.00",
	}, "alice")
	s.Require().NoError(err)

	s.Equal("60.00", resp.NewBalance)
	s.Require().NotNil(resp.DestinationBalance)
	s.Equal("40.00", *resp.DestinationBalance)

	s.Equal("60.00", s.balanceOf(source.AccountID))
	s.Equal("40.00", s.balanceOf(dest.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_ByAccountNumber() {
	source := s.newAccount("alice", "100.00")
	dest := s.newAccount("bob", "")

	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     dest.AccountNumber,
		Amount:          "15.00",
	}, "alice")
	s.Require().NoError(err)
	s.Equal("15.00", s.balanceOf(dest.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_SameAccount() {
	source := s.newAccount("alice", "100.00")

	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     source.AccountID,
		Amount:          "10.00",
	}, "alice")
	s.ErrorIs(err, apperrors.ErrSameAccount)
	s.Equal("100.00", s.balanceOf(source.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_SameAccountBeforeAnyLookup() {
	// The id equality check fires before the destination is resolved: an
	// unknown id fails SameAccount, not NotFound.
	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: "no-such-account",
		Destination:     "no-such-account",
		Amount:          "10.00",
	}, "alice")
	s.ErrorIs(err, apperrors.ErrSameAccount)
}

func (s *LedgerServiceTestSuite) TestTransfer_SameAccountByNumber() {
	source := s.newAccount("alice", "100.00")

	// The destination may alias the source through its account number; that
	// case is still rejected after resolution.
	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     source.AccountNumber,
		Amount:          "10.00",
	}, "alice")
	s.ErrorIs(err, apperrors.ErrSameAccount)
	s.Equal("100.00", s.balanceOf(source.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_InsufficientFunds() {
	source := s.newAccount("alice", "5.00")
	dest := s.newAccount("bob", "")

	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     dest.AccountID,
		Amount:          "5.01",
	}, "alice")
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	s.Equal("5.00", s.balanceOf(source.AccountID))
	s.Equal("0.00", s.balanceOf(dest.AccountID))
}

func (s *LedgerServiceTestSuite) TestTransfer_AuditsBothSides() {
	source := s.newAccount("alice", "100.00")
	dest := s.newAccount("bob", "")

	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     dest.AccountID,
		Amount:          "25.00",
	}, "alice")
	s.Require().NoError(err)

	bob := "bob"
	received, err := s.svc.Audit.ListAuditEntries(s.ctx, dto.ListAuditParams{ActorUserID: &bob})
	s.Require().NoError(err)
	s.Require().Len(received.Entries, 1)
	s.Equal(domain.AuditTransfer, received.Entries[0].Action)
	s.Contains(received.Entries[0].Description, "Received 25.00")

	alice := "alice"
	sent, err := s.svc.Audit.ListAuditEntries(s.ctx, dto.ListAuditParams{ActorUserID: &alice})
	s.Require().NoError(err)
	// Funding deposit plus the transfer debit.
	s.Len(sent.Entries, 2)
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_Idempotent() {
	account := s.newAccount("user-1", "")

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Kind:            domain.Deposit,
		Amount:          mustMoney(s.T(), "10.00"),
		SourceAccountID: account.AccountID,
	}

	first, err := s.svc.Ledger.RecordTransaction(s.ctx, txn, "user-1")
	s.Require().NoError(err)
	s.Equal("10.00", first.NewBalance)

	// Re-delivery of the same transaction is a successful no-op.
	second, err := s.svc.Ledger.RecordTransaction(s.ctx, txn, "user-1")
	s.Require().NoError(err)
	s.True(second.Processed)
	s.Equal("10.00", s.balanceOf(account.AccountID))
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_ProcessedFlagShortCircuits() {
	account := s.newAccount("user-1", "")

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Kind:            domain.Deposit,
		Amount:          mustMoney(s.T(), "10.00"),
		SourceAccountID: account.AccountID,
		Processed:       true,
	}

	resp, err := s.svc.Ledger.RecordTransaction(s.ctx, txn, "user-1")
	s.Require().NoError(err)
	s.True(resp.Processed)
	s.Equal("0.00", s.balanceOf(account.AccountID))
}

func (s *LedgerServiceTestSuite) TestRecordTransaction_UnknownKind() {
	account := s.newAccount("user-1", "")

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		Kind:            domain.TransactionKind("GIFT"),
		Amount:          mustMoney(s.T(), "10.00"),
		SourceAccountID: account.AccountID,
	}

	_, err := s.svc.Ledger.RecordTransaction(s.ctx, txn, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerServiceTestSuite) TestTransfer_CommitFailureLeavesNoTrace() {
	source := s.newAccount("alice", "100.00")
	dest := s.newAccount("bob", "")

	s.store.SetCommitFailure(errors.New("disk full"))
	_, err := s.svc.Ledger.Transfer(s.ctx, dto.TransferRequest{
		SourceAccountID: source.AccountID,
		Destination:     dest.AccountID,
		Amount:          "30.00",
	}, "alice")
	s.ErrorIs(err, apperrors.ErrStorage)
	s.store.SetCommitFailure(nil)

	// Neither balance moved and nothing was recorded.
	s.Equal("100.00", s.balanceOf(source.AccountID))
	s.Equal("0.00", s.balanceOf(dest.AccountID))
	history, err := s.svc.Ledger.ListTransactionsByAccount(s.ctx, dest.AccountID, dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Empty(history.Transactions)
}

func (s *LedgerServiceTestSuite) TestDeposit_AuditFailureRollsBackBalance() {
	account := s.newAccount("user-1", "")

	s.store.SetAuditFailure(errors.New("audit store down"))
	_, err := s.svc.Ledger.Deposit(s.ctx, dto.DepositRequest{AccountID: account.AccountID, Amount: "10.00"}, "user-1")
	s.ErrorIs(err, apperrors.ErrStorage)
	s.store.SetAuditFailure(nil)

	s.Equal("0.00", s.balanceOf(account.AccountID))
	entries, err := s.svc.Audit.ListAuditEntries(s.ctx, dto.ListAuditParams{})
	s.Require().NoError(err)
	s.Empty(entries.Entries)
}

func (s *LedgerServiceTestSuite) TestListTransactionsByAccount_NotFound() {
	_, err := s.svc.Ledger.ListTransactionsByAccount(s.ctx, "missing", dto.ListTransactionsParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func mustMoney(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.ParseMoney(s)
	require.NoError(t, err)
	return m
}
