package services_test

import (
	"context"
	"testing"

	"github.com/Fridah34/bank-management-api/internal/apperrors"
	"github.com/Fridah34/bank-management-api/internal/core/domain"
	portssvc "github.com/Fridah34/bank-management-api/internal/core/ports/services"
	"github.com/Fridah34/bank-management-api/internal/core/services"
	"github.com/Fridah34/bank-management-api/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepository interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerUserID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, ownerUserID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	ctx      context.Context
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
	suite.ctx = context.Background()
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{AccountType: domain.Savings}

	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(suite.ctx, req, "user-123")

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.Equal("user-123", account.OwnerUserID)
	suite.Equal(domain.Savings, account.AccountType)
	suite.True(account.Balance.IsZero())
	suite.True(account.IsActive)
	suite.Len(account.AccountNumber, 12)
	suite.NotEmpty(account.AccountID)
	suite.Equal("user-123", account.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	req := dto.CreateAccountRequest{AccountType: domain.AccountType("PREMIUM")}

	_, err := suite.service.CreateAccount(suite.ctx, req, "user-123")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_MissingOwner() {
	req := dto.CreateAccountRequest{AccountType: domain.Checking}

	_, err := suite.service.CreateAccount(suite.ctx, req, "")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount")
}

func (suite *AccountServiceTestSuite) TestCreateAccount_RepoError() {
	req := dto.CreateAccountRequest{AccountType: domain.Checking}
	repoErr := apperrors.NewStorageError("insert failed", nil)

	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.Account")).Return(repoErr).Once()

	_, err := suite.service.CreateAccount(suite.ctx, req, "user-123")

	suite.ErrorIs(err, apperrors.ErrStorage)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccountByID(suite.ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestListAccountsByOwner_DefaultsLimit() {
	suite.mockRepo.On("ListAccountsByOwner", suite.ctx, "user-123", 20, 0).Return([]domain.Account{}, nil).Once()

	resp, err := suite.service.ListAccountsByOwner(suite.ctx, "user-123", dto.ListAccountsParams{})

	suite.Require().NoError(err)
	suite.Empty(resp.Accounts)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
