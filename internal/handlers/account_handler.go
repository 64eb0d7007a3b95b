package handlers

import (
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccount creates a new account for the authenticated user
// @Summary Create a new account
// @Description Create a CURRENT or SAVINGS account with an optional opening balance. The first account becomes the default.
// @Tags Accounts
// @Security SessionAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account creation details"
// @Success 201 {object} errors.SuccessResponse "Account created"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body or validation error"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Missing session"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	account, err := h.accountService.CreateAccount(c.Request().Context(), userID, &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusCreated, account)
}

// GetUserAccounts lists the authenticated user's accounts with transaction counts
// @Summary List accounts
// @Tags Accounts
// @Security SessionAuth
// @Produce json
// @Success 200 {object} errors.SuccessResponse "Accounts, default first then newest"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Missing session"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [get]
func (h *AccountHandler) GetUserAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accounts, err := h.accountService.GetUserAccounts(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return SendSuccess(c, http.StatusOK, accounts)
}

// GetAccount returns one account with its transactions, newest first
// @Summary Get account with transactions
// @Tags Accounts
// @Security SessionAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} errors.SuccessResponse "Account detail"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid account ID format"
// @Failure 401 {object} errors.ErrorResponse "AUTH_001 - Missing session"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts/{accountId} [get]
func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	detail, err := h.accountService.GetAccountWithTransactions(c.Request().Context(), userID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, detail)
}

// UpdateAccount renames an account
// @Summary Rename account
// @Tags Accounts
// @Security SessionAuth
// @Accept json
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param request body dto.UpdateAccountRequest true "New name"
// @Success 200 {object} errors.SuccessResponse "Updated account"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{accountId} [patch]
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	account, err := h.accountService.UpdateAccount(c.Request().Context(), userID, accountID, &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, account)
}

// UpdateDefaultAccount makes the account the user's default
// @Summary Set default account
// @Tags Accounts
// @Security SessionAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} errors.SuccessResponse "New default account"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{accountId}/default [put]
func (h *AccountHandler) UpdateDefaultAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	account, err := h.accountService.UpdateDefaultAccount(c.Request().Context(), userID, accountID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, account)
}

// DeleteAccount deletes a non-default account and its transactions
// @Summary Delete account
// @Tags Accounts
// @Security SessionAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Success 200 {object} errors.SuccessResponse "Account deleted"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 422 {object} errors.ErrorResponse "ACCOUNT_002 - Default account cannot be deleted"
// @Router /accounts/{accountId} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	if err := h.accountService.DeleteAccount(c.Request().Context(), userID, accountID); err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, dto.MessageResponse{Message: "Account deleted successfully"})
}
