package handlers

import (
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionService services.TransactionServiceInterface) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransaction books a transaction and adjusts the account balance
// @Summary Create transaction
// @Description Omitting account_id books the transaction on the default account.
// @Tags Transactions
// @Security SessionAuth
// @Accept json
// @Produce json
// @Param request body dto.TransactionRequest true "Transaction details"
// @Success 201 {object} errors.SuccessResponse "Transaction created"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 422 {object} errors.ErrorResponse "ACCOUNT_006 - No default account"
// @Failure 429 {object} errors.ErrorResponse "SYSTEM_004 - Rate limit exceeded"
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), userID, &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusCreated, transaction)
}

// GetTransaction returns one of the user's transactions
// @Summary Get transaction
// @Tags Transactions
// @Security SessionAuth
// @Produce json
// @Param transactionId path string true "Transaction ID (UUID)"
// @Success 200 {object} errors.SuccessResponse "Transaction"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{transactionId} [get]
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	transactionID, err := getUUIDParam(c, "transactionId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	transaction, err := h.transactionService.GetTransaction(c.Request().Context(), userID, transactionID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, transaction)
}

// UpdateTransaction replaces a transaction, moving balances when the amount,
// type or account changes
// @Summary Update transaction
// @Tags Transactions
// @Security SessionAuth
// @Accept json
// @Produce json
// @Param transactionId path string true "Transaction ID (UUID)"
// @Param request body dto.TransactionRequest true "Transaction details"
// @Success 200 {object} errors.SuccessResponse "Updated transaction"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 - Transaction not found"
// @Router /transactions/{transactionId} [put]
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	transactionID, err := getUUIDParam(c, "transactionId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid transaction ID"))
	}

	var req dto.TransactionRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), userID, transactionID, &req)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, transaction)
}

// BulkDeleteTransactions deletes the user's transactions among the given ids
// and reverses their effect on account balances
// @Summary Bulk delete transactions
// @Tags Transactions
// @Security SessionAuth
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteRequest true "Transaction IDs"
// @Success 200 {object} errors.SuccessResponse "Deleted count and balance changes"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid request body"
// @Router /transactions/bulk-delete [post]
func (h *TransactionHandler) BulkDeleteTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	result, err := h.transactionService.BulkDeleteTransactions(c.Request().Context(), userID, req.IDs)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, result)
}

// ListAccountTransactions returns one page of an account's transaction table
// @Summary List account transactions
// @Description Filter by search text, type and recurrence, sort by date, amount or category. toggle=<field> applies the header-click sort rule to the current sort.
// @Tags Transactions
// @Security SessionAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param search query string false "Case-insensitive description search"
// @Param type query string false "INCOME or EXPENSE"
// @Param recurring query string false "recurring or non-recurring"
// @Param sort query string false "date, amount or category"
// @Param direction query string false "asc or desc"
// @Param toggle query string false "Field selected by the user"
// @Param page query int false "Page number"
// @Success 200 {object} errors.SuccessResponse "Transaction page"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_005 - Invalid query"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListAccountTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var params dto.TransactionListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return SendError(c, errors.ValidationInvalidQuery, errors.WithDetails("Invalid query parameters"))
	}

	page, err := h.transactionService.ListAccountTransactions(c.Request().Context(), userID, accountID, toTransactionQuery(params))
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, page)
}

func toTransactionQuery(params dto.TransactionListQuery) models.TransactionQuery {
	sort := models.TransactionSort{Field: params.Sort, Direction: params.Direction}
	if params.Toggle != "" {
		if sort.Field == "" {
			sort = models.DefaultTransactionSort()
		}
		sort = sort.Toggle(params.Toggle)
	}

	return models.TransactionQuery{
		Search:    params.Search,
		Type:      params.Type,
		Recurring: params.Recurring,
		Sort:      sort,
		Page:      params.Page,
	}
}
