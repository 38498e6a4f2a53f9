package services

import (
	"context"
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
	"github.com/Fridah34/bank-management-api/internal/utils"
)

// accountService manages account lifecycle; balances are read-only here and
// mutated exclusively by the ledger engine.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a new account for the owner with a zero balance and a
// generated account number. A customer may hold any number of accounts.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, ownerUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if ownerUserID == "" {
		return nil, fmt.Errorf("%w: owner is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		OwnerUserID:   ownerUserID,
		AccountNumber: utils.GenerateAccountNumber(),
		AccountType:   req.AccountType,
		Balance:       domain.ZeroMoney(),
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("owner_user_id", ownerUserID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created",
		slog.String("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
		slog.String("owner_user_id", ownerUserID),
	)
	return &account, nil
}

// GetAccountByID returns a point-in-time snapshot of the account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountByNumber resolves the human-facing account number.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByNumber(ctx, accountNumber)
}

// ListAccountsByOwner returns the owner's accounts, newest first.
func (s *accountService) ListAccountsByOwner(ctx context.Context, ownerUserID string, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, ownerUserID, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerUserID, err)
	}

	return &dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)}, nil
}
