package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portsrepo "github.com/Fridah34/bank-management-api/internal/core/ports/repositories"
	"github.com/Fridah34/bank-management-api/internal/models"
	"github.com/Fridah34/bank-management-api/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, owner_user_id, account_number, account_type, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToAccountModel(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.OwnerUserID,
		modelAcc.AccountNumber,
		modelAcc.AccountType,
		modelAcc.Balance,
		modelAcc.IsActive,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, modelAcc.AccountID)
		}
		return apperrors.NewStorageError(fmt.Sprintf("failed to save account %s", modelAcc.AccountID), err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return r.findOne(ctx, query, accountID)
}

// FindAccountByNumber retrieves an account by its public account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	return r.findOne(ctx, query, accountNumber)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var modelAcc models.Account
	err := r.Pool.QueryRow(ctx, query, arg).Scan(
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
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStorageError("failed to find account", err)
	}
	account := mapping.ToAccountDomain(modelAcc)
	return &account, nil
}

// ListAccountsByOwner returns accounts belonging to a user, newest first.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerUserID string, limit int, offset int) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, account_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
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
			return nil, apperrors.NewStorageError("failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToAccountDomain(modelAcc))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed reading account rows", err)
	}
	return accounts, nil
}
