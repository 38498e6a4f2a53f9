package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/Fridah34/bank-management-api/internal/middleware"
)

// errAlreadyProcessed signals, from inside a unit of work, that the
// transaction was processed by a concurrent caller. The unit of work is
// discarded and the call completes as a no-op.
var errAlreadyProcessed = errors.New("transaction already processed")

// ledgerService is the transactional balance-mutation engine. All balance
// changes flow through apply, which holds exclusive access to every involved
// account for the whole unit of work.
type ledgerService struct {
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerRepository
}

// NewLedgerService creates a new ledger engine.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepository, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Deposit credits an account and records the deposit as one atomic unit of
// work. Returns the processed ledger entry with the new balance.
func (s *ledgerService) Deposit(ctx context.Context, req dto.DepositRequest, actorUserID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(domain.Deposit, amount, req.AccountID, nil, req.Description, actorUserID)
	newBalance, _, err := s.apply(ctx, &txn, actorUserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Deposit processed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", amount.String()),
	)
	resp := dto.ToTransactionResponse(&txn, newBalance, nil)
	return &resp, nil
}

// Withdraw debits an account, failing with ErrInsufficientFunds when the
// balance cannot cover the amount.
func (s *ledgerService) Withdraw(ctx context.Context, req dto.WithdrawRequest, actorUserID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(domain.Withdrawal, amount, req.AccountID, nil, req.Description, actorUserID)
	newBalance, _, err := s.apply(ctx, &txn, actorUserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Withdrawal processed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", amount.String()),
	)
	resp := dto.ToTransactionResponse(&txn, newBalance, nil)
	return &resp, nil
}

// Transfer moves funds between two distinct accounts. Both balance changes
// and both audit entries commit in the same unit of work; the totals of the
// two accounts are conserved.
func (s *ledgerService) Transfer(ctx context.Context, req dto.TransferRequest, actorUserID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount, err := domain.ParseMoney(req.Amount)
	if err != nil {
		return nil, err
	}

	// Fail before touching storage when the destination names the source
	// account directly. An account-number alias for the source is caught by
	// validate after resolution.
	if req.Destination == req.SourceAccountID {
		return nil, apperrors.ErrSameAccount
	}

	dest, err := s.resolveDestination(ctx, req.Destination)
	if err != nil {
		return nil, err
	}

	txn := s.newTransaction(domain.Transfer, amount, req.SourceAccountID, &dest.AccountID, req.Description, actorUserID)
	newBalance, destBalance, err := s.apply(ctx, &txn, actorUserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Transfer processed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("source_account_id", req.SourceAccountID),
		slog.String("destination_account_id", dest.AccountID),
		slog.String("amount", amount.String()),
	)
	resp := dto.ToTransactionResponse(&txn, newBalance, destBalance)
	return &resp, nil
}

// RecordTransaction is the idempotency gate over the three primitive
// mutators. Re-delivery of an already-processed transaction is a successful
// no-op, so an at-least-once caller cannot double-apply a mutation.
func (s *ledgerService) RecordTransaction(ctx context.Context, txn domain.Transaction, actorUserID string) (*dto.TransactionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if txn.Processed {
		return s.noopResponse(ctx, &txn)
	}

	// Cheap pre-check against the store; the authoritative check happens
	// again under the account locks inside apply.
	if existing, err := s.ledgerRepo.FindTransactionByID(ctx, txn.TransactionID); err == nil && existing.Processed {
		logger.Info("Transaction already processed, skipping", slog.String("transaction_id", txn.TransactionID))
		return s.noopResponse(ctx, existing)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	newBalance, destBalance, err := s.apply(ctx, &txn, actorUserID)
	if errors.Is(err, errAlreadyProcessed) {
		logger.Info("Transaction processed concurrently, skipping", slog.String("transaction_id", txn.TransactionID))
		txn.Processed = true
		return s.noopResponse(ctx, &txn)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("kind", string(txn.Kind)),
	)
	resp := dto.ToTransactionResponse(&txn, newBalance, destBalance)
	return &resp, nil
}

// GetTransactionByID returns a ledger entry snapshot.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.ledgerRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactionsByAccount returns the account's history, newest first.
func (s *ledgerService) ListTransactionsByAccount(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	txns, err := s.ledgerRepo.ListTransactionsByAccount(ctx, accountID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for account %s: %w", accountID, err)
	}

	resp := dto.ToListTransactionsResponse(txns)
	return &resp, nil
}

// newTransaction builds an unprocessed ledger entry.
func (s *ledgerService) newTransaction(kind domain.TransactionKind, amount domain.Money, sourceID string, destID *string, description, actorUserID string) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		TransactionID:        uuid.NewString(),
		Kind:                 kind,
		Amount:               amount,
		SourceAccountID:      sourceID,
		DestinationAccountID: destID,
		Description:          description,
		Processed:            false,
		OccurredAt:           now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}
}

// resolveDestination accepts an account id or a human-facing account number.
func (s *ledgerService) resolveDestination(ctx context.Context, destination string) (*domain.Account, error) {
	acc, err := s.accountRepo.FindAccountByID(ctx, destination)
	if err == nil {
		return acc, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	return s.accountRepo.FindAccountByNumber(ctx, destination)
}

// validate checks the domain invariants of an unprocessed transaction before
// any storage access.
func (s *ledgerService) validate(txn *domain.Transaction) error {
	if !txn.Kind.IsValid() {
		return fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, txn.Kind)
	}
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("%w: got %s", apperrors.ErrNonPositiveAmount, txn.Amount)
	}
	if txn.RequiresDestination() {
		if txn.DestinationAccountID == nil || *txn.DestinationAccountID == "" {
			return fmt.Errorf("%w: transfer requires a destination account", apperrors.ErrValidation)
		}
		if *txn.DestinationAccountID == txn.SourceAccountID {
			return apperrors.ErrSameAccount
		}
	}
	return nil
}

// apply executes the transaction as one atomic unit of work: exclusive
// access to every involved account is acquired (in ascending id order,
// established by the store, not the caller) before any balance is read; the
// balance writes, the processed ledger entry and the audit entries commit
// together or not at all.
func (s *ledgerService) apply(ctx context.Context, txn *domain.Transaction, actorUserID string) (domain.Money, *domain.Money, error) {
	if err := s.validate(txn); err != nil {
		return domain.Money{}, nil, err
	}

	accountIDs := []string{txn.SourceAccountID}
	if txn.DestinationAccountID != nil {
		accountIDs = append(accountIDs, *txn.DestinationAccountID)
	}

	var newBalance domain.Money
	var destBalance *domain.Money

	err := s.ledgerRepo.WithAccountsForUpdate(ctx, accountIDs, func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error {
		// Authoritative idempotency check, race-free under the account locks.
		existing, err := uow.FindTransactionForUpdate(ctx, txn.TransactionID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if existing != nil && existing.Processed {
			return errAlreadyProcessed
		}

		now := time.Now().UTC()
		source := accounts[txn.SourceAccountID]
		if !source.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, source.AccountID)
		}

		entries := make([]domain.AuditLogEntry, 0, 2)

		switch txn.Kind {
		case domain.Deposit:
			source.Balance = source.Balance.Add(txn.Amount)
			entries = append(entries, newAuditEntry(domain.AuditDeposit, source.OwnerUserID, now,
				fmt.Sprintf("Deposited %s to account %s", txn.Amount, source.AccountNumber)))

		case domain.Withdrawal:
			if source.Balance.LessThan(txn.Amount) {
				return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, source.Balance, txn.Amount)
			}
			source.Balance, err = source.Balance.Sub(txn.Amount)
			if err != nil {
				return err
			}
			entries = append(entries, newAuditEntry(domain.AuditWithdraw, source.OwnerUserID, now,
				fmt.Sprintf("Withdrew %s from account %s", txn.Amount, source.AccountNumber)))

		case domain.Transfer:
			dest := accounts[*txn.DestinationAccountID]
			if !dest.IsActive {
				return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, dest.AccountID)
			}
			if source.Balance.LessThan(txn.Amount) {
				return fmt.Errorf("%w: balance %s, requested %s", apperrors.ErrInsufficientFunds, source.Balance, txn.Amount)
			}
			source.Balance, err = source.Balance.Sub(txn.Amount)
			if err != nil {
				return err
			}
			dest.Balance = dest.Balance.Add(txn.Amount)

			// One entry per side: the debit attributed to the sender, the
			// credit to the receiver.
			entries = append(entries,
				newAuditEntry(domain.AuditTransfer, source.OwnerUserID, now,
					fmt.Sprintf("Transferred %s to account %s", txn.Amount, dest.AccountNumber)),
				newAuditEntry(domain.AuditTransfer, dest.OwnerUserID, now,
					fmt.Sprintf("Received %s from account %s", txn.Amount, source.AccountNumber)))

			dest.LastUpdatedAt = now
			dest.LastUpdatedBy = actorUserID
			if err := uow.UpdateAccountBalance(ctx, dest); err != nil {
				return err
			}
			db := dest.Balance
			destBalance = &db
		}

		source.LastUpdatedAt = now
		source.LastUpdatedBy = actorUserID
		if err := uow.UpdateAccountBalance(ctx, source); err != nil {
			return err
		}

		txn.Processed = true
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = actorUserID
		if err := uow.SaveTransaction(ctx, *txn); err != nil {
			return err
		}

		for _, entry := range entries {
			if err := uow.AppendAuditEntry(ctx, entry); err != nil {
				return err
			}
		}

		newBalance = source.Balance
		return nil
	})
	if err != nil {
		return domain.Money{}, nil, err
	}

	return newBalance, destBalance, nil
}

// noopResponse builds the response for an idempotent replay without applying
// any side effects.
func (s *ledgerService) noopResponse(ctx context.Context, txn *domain.Transaction) (*dto.TransactionResponse, error) {
	source, err := s.accountRepo.FindAccountByID(ctx, txn.SourceAccountID)
	if err != nil {
		return nil, err
	}
	var destBalance *domain.Money
	if txn.DestinationAccountID != nil {
		dest, err := s.accountRepo.FindAccountByID(ctx, *txn.DestinationAccountID)
		if err != nil {
			return nil, err
		}
		db := dest.Balance
		destBalance = &db
	}
	resp := dto.ToTransactionResponse(txn, source.Balance, destBalance)
	return &resp, nil
}

// newAuditEntry builds an audit record attributed to the given actor.
func newAuditEntry(action domain.AuditAction, actorUserID string, at time.Time, description string) domain.AuditLogEntry {
	entry := domain.AuditLogEntry{
		EntryID:     uuid.NewString(),
		Action:      action,
		Description: description,
		CreatedAt:   at,
	}
	if actorUserID != "" {
		entry.ActorUserID = &actorUserID
	}
	return entry
}
