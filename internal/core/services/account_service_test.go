package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/core/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1000", Name: "Trust Bank", AccountType: domain.Asset, RelatedBankAccountID: strPtr("bank-1")}

	suite.mockRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.ChartOfAccount")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, "user-1")
	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.True(account.IsActive)
	suite.Equal("bank-1", account.RelatedBankAccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_BankLinkOnlyForAssets() {
	req := dto.CreateAccountRequest{Code: "2000", Name: "Client Funds", AccountType: domain.Liability, RelatedBankAccountID: strPtr("bank-1")}

	_, err := suite.service.CreateAccount(context.Background(), req, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "3000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.ChartOfAccount")).Return(assert.AnError).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Code: "3000", Name: "Equity", AccountType: domain.Equity}, "user-1")
	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_RejectsCycle() {
	ctx := context.Background()
	parent := &domain.ChartOfAccount{AccountID: "parent", AccountType: domain.Asset, IsActive: true}
	child := &domain.ChartOfAccount{AccountID: "child", AccountType: domain.Asset, ParentAccountID: "parent", IsActive: true}
	suite.mockRepo.On("FindAccountByID", ctx, "parent").Return(parent, nil)
	suite.mockRepo.On("FindAccountByID", ctx, "child").Return(child, nil)

	_, err := suite.service.UpdateAccount(ctx, "parent", dto.UpdateAccountRequest{ParentAccountID: strPtr("child")}, "user-1")
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestSetAccountActive_NoopWhenUnchanged() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.ChartOfAccount{AccountID: "acc-1", IsActive: true}, nil).Once()

	account, err := suite.service.SetAccountActive(ctx, "acc-1", true, "user-1")
	suite.Require().NoError(err)
	suite.True(account.IsActive)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetAccount(ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
