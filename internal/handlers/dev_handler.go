package handlers

import (
	"fmt"
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	transactionService services.TransactionServiceInterface
}

// NewDevHandler creates a new development handler
func NewDevHandler(transactionService services.TransactionServiceInterface) *DevHandler {
	return &DevHandler{transactionService: transactionService}
}

// GenerateTestData fills an account with realistic fake history
//
// Method: POST /api/v1/dev/accounts/:accountId/generate-test-data
// Authentication: Required
// Environment: Development only
//
// Body (optional):
//   - days: days of history to generate (default: 90, max: 365)
//   - count: number of transactions to generate (default: 60, max: 500)
//
// Success Response: 201 Created
//   - message: Success message
//   - transactions_created: Number of transactions created
//
// Error Responses:
//   - 400: Invalid account ID or parameters
//   - 401: Missing session
//   - 404: Account not found
//   - 500: Internal server error
func (h *DevHandler) GenerateTestData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	var req dto.GenerateTestDataRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(validationDetails(err)...))
	}

	created, err := h.transactionService.GenerateTestData(c.Request().Context(), userID, accountID, req.Days, req.Count)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusCreated, dto.GenerateTestDataResponse{
		Message:             fmt.Sprintf("Generated %d transactions", created),
		TransactionsCreated: created,
	})
}
