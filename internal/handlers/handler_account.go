package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/trust_ledger/internal/core/ports/services"
	"github.com/SscSPs/trust_ledger/internal/dto"
	"github.com/SscSPs/trust_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to the chart of accounts.
type accountHandler struct {
	baseHandler
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(base baseHandler, as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		baseHandler:    base,
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, base baseHandler, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(base, accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.PUT("/:accountID/active", h.setAccountActive)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Adds a node to the chart of accounts. Codes are unique; only ASSET accounts may reference a bank account.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} errorResponse "Invalid input format"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 409 {object} errorResponse "Duplicate account code"
// @Failure 422 {object} errorResponse "Validation failed"
// @Failure 500 {object} errorResponse "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}

	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	logger.Info("Received request to create account", slog.String("code", req.Code), slog.String("account_type", string(req.AccountType)))

	account, err := h.accountService.CreateAccount(c.Request.Context(), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		h.respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists the chart of accounts ordered by code
// @Tags accounts
// @Produce  json
// @Param   accountType query string false "ASSET, LIABILITY, EQUITY, INCOME or EXPENSE"
// @Param   activeOnly query bool false "Only active accounts"
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} errorResponse "Unauthorized"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.respondBindError(c, err)
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params)
	if err != nil {
		h.respondError(c, err, "Failed to list accounts")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Accounts listed", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// updateAccount godoc
// @Summary Update an account
// @Description Updates an account's name, parent or bank link. Code and type are immutable.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID to update"
// @Param   account body dto.UpdateAccountRequest true "Account details to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Failure 422 {object} errorResponse "Validation failed"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), c.Param("accountID"), req, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// setAccountActive godoc
// @Summary Activate or deactivate an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   body body dto.SetAccountActiveRequest true "Desired state"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} errorResponse "Account not found"
// @Security BearerAuth
// @Router /accounts/{accountID}/active [put]
func (h *accountHandler) setAccountActive(c *gin.Context) {
	var req dto.SetAccountActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	actorID, ok := h.requireActor(c)
	if !ok {
		return
	}

	account, err := h.accountService.SetAccountActive(c.Request.Context(), c.Param("accountID"), *req.IsActive, actorID)
	if err != nil {
		h.respondError(c, err, "Failed to change account state")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
