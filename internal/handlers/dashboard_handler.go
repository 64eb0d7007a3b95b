package handlers

import (
	"net/http"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the dashboard and per-account charts
type DashboardHandler struct {
	chartService services.ChartServiceInterface
}

func NewDashboardHandler(chartService services.ChartServiceInterface) *DashboardHandler {
	return &DashboardHandler{chartService: chartService}
}

// GetDashboard returns accounts, the latest transactions and a chart across all accounts
// @Summary Dashboard
// @Tags Dashboard
// @Security SessionAuth
// @Produce json
// @Param range query string false "7D, 1M, 3M, 6M or ALL (default 1M)"
// @Success 200 {object} errors.SuccessResponse "Dashboard"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_005 - Unknown range"
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	chartRange, err := models.ParseChartRange(c.QueryParam("range"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidQuery, errors.WithDetails(err.Error()))
	}

	dashboard, err := h.chartService.GetDashboard(c.Request().Context(), userID, chartRange)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, dashboard)
}

// GetAccountChart returns daily income and expense totals for one account
// @Summary Account chart
// @Tags Dashboard
// @Security SessionAuth
// @Produce json
// @Param accountId path string true "Account ID (UUID)"
// @Param range query string false "7D, 1M, 3M, 6M or ALL (default 1M)"
// @Success 200 {object} errors.SuccessResponse "Chart data"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{accountId}/chart [get]
func (h *DashboardHandler) GetAccountChart(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	accountID, err := getUUIDParam(c, "accountId")
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("Invalid account ID"))
	}

	chartRange, err := models.ParseChartRange(c.QueryParam("range"))
	if err != nil {
		return SendError(c, errors.ValidationInvalidQuery, errors.WithDetails(err.Error()))
	}

	chart, err := h.chartService.GetAccountChart(c.Request().Context(), userID, accountID, chartRange)
	if err != nil {
		return sendServiceError(c, err)
	}

	return SendSuccess(c, http.StatusOK, chart)
}
