package handlers_test

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/SscSPs/trust_ledger/internal/apperrors"
	"github.com/SscSPs/trust_ledger/internal/core/domain"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestCreateOwner_Success() {
	req := dto.CreateOwnerRequest{Code: "c-001", OwnerType: domain.OwnerClient, Name: "Client One"}
	suite.mockOwnerService.On("CreateOwner", mock.Anything, req, testActorID).
		Return(&domain.Owner{OwnerID: "o-1", Code: "C-001", OwnerType: domain.OwnerClient, Name: "Client One", Status: domain.StatusActive}, nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/owners", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.OwnerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("o-1", resp.OwnerID)
	suite.Equal("C-001", resp.Code)
	suite.Equal(domain.StatusActive, resp.Status)
}

func (suite *HandlerTestSuite) TestCreateOwner_BindingFailuresAreFieldErrors() {
	w := suite.serveJSON(http.MethodPost, "/api/v1/owners", map[string]string{"ownerType": "LANDLORD", "name": "X"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	body := suite.decodeError(w)
	suite.ElementsMatch([]string{"code", "ownerType"}, suite.fieldNames(body))
	suite.mockOwnerService.AssertNotCalled(suite.T(), "CreateOwner", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestCreateOwner_MalformedJSON() {
	w := suite.serve(http.MethodPost, "/api/v1/owners", strings.NewReader("{not json"), "application/json", "accountant")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateOwner_Conflict() {
	suite.mockOwnerService.On("CreateOwner", mock.Anything, mock.Anything, testActorID).
		Return(nil, apperrors.NewConflictError("ownerType", "at most 3 SYSTEM owners may exist")).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/owners", dto.CreateOwnerRequest{Code: "SYS4", OwnerType: domain.OwnerSystem, Name: "Fourth"})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("at most 3 SYSTEM owners may exist", suite.decodeError(w).Error)
}

func (suite *HandlerTestSuite) TestGetOwner_NotFound() {
	suite.mockOwnerService.On("GetOwner", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListOwners_PassesFilters() {
	suite.mockOwnerService.On("ListOwners", mock.Anything, dto.ListOwnersParams{OwnerType: domain.OwnerUnit, Status: domain.StatusActive}).
		Return([]domain.Owner{{OwnerID: "u-1", OwnerType: domain.OwnerUnit}}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/owners?ownerType=UNIT&status=ACTIVE", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.OwnerResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 1)
}

func (suite *HandlerTestSuite) TestSetOwnerStatus() {
	suite.mockOwnerService.On("SetOwnerStatus", mock.Anything, "o-1", domain.StatusInactive, testActorID).
		Return(&domain.Owner{OwnerID: "o-1", Status: domain.StatusInactive}, nil).Once()

	w := suite.serveJSON(http.MethodPut, "/api/v1/owners/o-1/status", dto.SetOwnerStatusRequest{Status: domain.StatusInactive})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestCreateUnit_ValidationFromService() {
	suite.mockOwnerService.On("CreateUnit", mock.Anything, "o-1", dto.CreateUnitRequest{Code: "A1", Name: "Flat A1"}, testActorID).
		Return(nil, apperrors.NewValidationError("ownerID", "units can only be added to active owners")).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/owners/o-1/units", dto.CreateUnitRequest{Code: "A1", Name: "Flat A1"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"ownerID"}, suite.fieldNames(suite.decodeError(w)))
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: "1100", Name: "Client Funds", AccountType: domain.Asset}
	suite.mockAccountService.On("CreateAccount", mock.Anything, req, testActorID).
		Return(&domain.ChartOfAccount{AccountID: "a-1", Code: "1100", Name: "Client Funds", AccountType: domain.Asset, IsActive: true}, nil).Once()

	w := suite.serveJSON(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("a-1", resp.AccountID)
	suite.True(resp.IsActive)
}

func (suite *HandlerTestSuite) TestSetAccountActive_RequiresFlag() {
	w := suite.serveJSON(http.MethodPut, "/api/v1/accounts/a-1/active", map[string]any{})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal([]string{"isActive"}, suite.fieldNames(suite.decodeError(w)))
}

func (suite *HandlerTestSuite) TestSetAccountActive_Deactivates() {
	suite.mockAccountService.On("SetAccountActive", mock.Anything, "a-1", false, testActorID).
		Return(&domain.ChartOfAccount{AccountID: "a-1"}, nil).Once()

	w := suite.serveJSON(http.MethodPut, "/api/v1/accounts/a-1/active", map[string]any{"isActive": false})

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts() {
	suite.mockAccountService.On("ListAccounts", mock.Anything, dto.ListAccountsParams{AccountType: domain.Liability, ActiveOnly: true}).
		Return([]domain.ChartOfAccount{{AccountID: "a-2"}, {AccountID: "a-3"}}, nil).Once()

	w := suite.serveJSON(http.MethodGet, "/api/v1/accounts?accountType=LIABILITY&activeOnly=true", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp []dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp, 2)
}
