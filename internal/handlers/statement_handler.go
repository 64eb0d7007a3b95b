package handlers

import (
	"fmt"
	"net/http"
	"time"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

const statementFormatJSON = "json"

// StatementHandler renders account statements
type StatementHandler struct {
	statementService services.StatementServiceInterface
	now              func() time.Time
}

func NewStatementHandler(statementService services.StatementServiceInterface) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		now:              time.Now,
	}
}

// GetStatement renders an account statement for [from, to]
// @Summary Account statement
// @Description Defaults to the current month. format=json returns the statement data instead of a PDF.
// @Tags Statements
// @Security SessionAuth
// @Produce application/pdf
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param format query string false "pdf (default) or json"
// @Success 200 {file} file "Statement PDF"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_004 - Invalid date range"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{accountId}/statement [get]
func (h *StatementHandler) GetStatement(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	now := h.now().UTC()
	from, ok, err := getDateParam(c, "from")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails("from must be YYYY-MM-DD"))
	}
	if !ok {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	to, ok, err := getDateParam(c, "to")
	if err != nil {
		return SendError(c, errors.ValidationInvalidDate, errors.WithDetails("to must be YYYY-MM-DD"))
	}
	if !ok {
		to = now
	}

	statement, err := h.statementService.GenerateStatement(c.Request().Context(), userID, accountID, from, to)
	if err != nil {
		return sendServiceError(c, err)
	}

	if c.QueryParam("format") == statementFormatJSON {
		return SendSuccess(c, http.StatusOK, statement)
	}

	pdf, err := h.statementService.RenderPDF(statement)
	if err != nil {
		return SendSystemError(c, err)
	}

	filename := fmt.Sprintf("statement-%s-%s.pdf", from.Format(queryDateLayout), to.Format(queryDateLayout))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
