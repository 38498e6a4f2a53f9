package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/models"
	"github.com/Fridah34/bank-management-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, kind, amount, source_account_id, destination_account_id, description, processed, occurred_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger movements and
// the exclusive-access unit of work they run under.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

// WithAccountsForUpdate locks the given accounts with SELECT ... FOR UPDATE
// inside a single database transaction and runs body against them. Rows are
// locked in ascending account_id order so concurrent callers touching
// overlapping account sets cannot deadlock.
func (r *PgxLedgerRepository) WithAccountsForUpdate(ctx context.Context, accountIDs []string, body func(ctx context.Context, uow portsrepo.LedgerUnitOfWork, accounts map[string]*domain.Account) error) error {
	ids := dedupeSorted(accountIDs)
	if len(ids) == 0 {
		return fmt.Errorf("%w: no accounts to lock", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	accounts, err := lockAccounts(ctx, tx, ids)
	if err != nil {
		return err
	}

	uow := &pgxLedgerUnitOfWork{tx: tx}
	if err := body(ctx, uow, accounts); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// lockAccounts reads and row-locks every account in ids. The ORDER BY inside
// the locking query fixes the acquisition order.
func lockAccounts(ctx context.Context, tx pgx.Tx, ids []string) (map[string]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to lock accounts", err)
	}
	defer rows.Close()

	accounts := make(map[string]*domain.Account, len(ids))
	for rows.Next() {
		var modelAcc models.Account
		if err := rows.Scan(
			&modelAcc.AccountID,
			&modelAcc.OwnerUserID,
			&modelAcc.AccountNumber,
			&modelAcc.AccountType,
			&modelAcc.Balance,
			&modelAcc.IsActive,
			&modelAcc.CreatedAt,
			&modelAcc.CreatedBy,
			&modelAcc.LastUpdatedAt,
			&modelAcc.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan locked account", err)
		}
		account := mapping.ToAccountDomain(modelAcc)
		accounts[account.AccountID] = &account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed reading locked accounts", err)
	}

	for _, id := range ids {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// FindTransactionByID retrieves a ledger entry by its ID.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	return scanTransactionRow(r.Pool.QueryRow(ctx, query, transactionID))
}

// ListTransactionsByAccount returns entries touching the account as source or
// destination, newest first.
func (r *PgxLedgerRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY occurred_at DESC, transaction_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		var modelTxn models.Transaction
		if err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.Kind,
			&modelTxn.Amount,
			&modelTxn.SourceAccountID,
			&modelTxn.DestinationAccountID,
			&modelTxn.Description,
			&modelTxn.Processed,
			&modelTxn.OccurredAt,
			&modelTxn.CreatedAt,
			&modelTxn.CreatedBy,
			&modelTxn.LastUpdatedAt,
			&modelTxn.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewStorageError("failed to scan transaction row", err)
		}
		txns = append(txns, mapping.ToTransactionDomain(modelTxn))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed reading transaction rows", err)
	}
	return txns, nil
}

// pgxLedgerUnitOfWork stages writes on the open database transaction held by
// WithAccountsForUpdate.
type pgxLedgerUnitOfWork struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerUnitOfWork = (*pgxLedgerUnitOfWork)(nil)

func (u *pgxLedgerUnitOfWork) UpdateAccountBalance(ctx context.Context, account *domain.Account) error {
	modelAcc := mapping.ToAccountModel(*account)
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := u.tx.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Balance,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to update balance of account %s", modelAcc.AccountID), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, modelAcc.AccountID)
	}
	return nil
}

func (u *pgxLedgerUnitOfWork) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	modelTxn := mapping.ToTransactionModel(txn)
	// The processed flag only ever moves false -> true.
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (transaction_id) DO UPDATE
		SET processed = transactions.processed OR EXCLUDED.processed,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := u.tx.Exec(ctx, query,
		modelTxn.TransactionID,
		modelTxn.Kind,
		modelTxn.Amount,
		modelTxn.SourceAccountID,
		modelTxn.DestinationAccountID,
		modelTxn.Description,
		modelTxn.Processed,
		modelTxn.OccurredAt,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save transaction %s", modelTxn.TransactionID), err)
	}
	return nil
}

func (u *pgxLedgerUnitOfWork) FindTransactionForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	return scanTransactionRow(u.tx.QueryRow(ctx, query, transactionID))
}

func (u *pgxLedgerUnitOfWork) AppendAuditEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	return insertAuditEntry(ctx, u.tx, entry)
}

// insertAuditEntry appends one audit row on the given transaction. Shared
// with the loan repository, which also writes audit rows transactionally.
func insertAuditEntry(ctx context.Context, tx pgx.Tx, entry domain.AuditLogEntry) error {
	modelEntry := mapping.ToAuditLogEntryModel(entry)
	query := `
		INSERT INTO audit_logs (entry_id, actor_user_id, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, query,
		modelEntry.EntryID,
		modelEntry.ActorUserID,
		modelEntry.Action,
		modelEntry.Description,
		modelEntry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to append audit entry %s", modelEntry.EntryID), err)
	}
	return nil
}

func scanTransactionRow(row pgx.Row) (*domain.Transaction, error) {
	var modelTxn models.Transaction
	err := row.Scan(
		&modelTxn.TransactionID,
		&modelTxn.Kind,
		&modelTxn.Amount,
		&modelTxn.SourceAccountID,
		&modelTxn.DestinationAccountID,
		&modelTxn.Description,
		&modelTxn.Processed,
		&modelTxn.OccurredAt,
		&modelTxn.CreatedAt,
		&modelTxn.CreatedBy,
		&modelTxn.LastUpdatedAt,
		&modelTxn.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("failed to find transaction", err)
	}
	txn := mapping.ToTransactionDomain(modelTxn)
	return &txn, nil
}

// dedupeSorted returns the unique ids in ascending order.
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
