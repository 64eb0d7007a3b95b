package handlers

import (
	"net/http"
	"strings"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories returns the category catalogue, optionally for one transaction type
// @Summary List categories
// @Tags Categories
// @Security SessionAuth
// @Produce json
// @Param type query string false "INCOME or EXPENSE"
// @Success 200 {object} errors.SuccessResponse "Categories"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_005 - Unknown type"
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	txType := strings.ToUpper(strings.TrimSpace(c.QueryParam("type")))
	if txType != "" && !models.IsValidTransactionType(txType) {
		return SendError(c, errors.ValidationInvalidQuery, errors.WithDetails("type must be INCOME or EXPENSE"))
	}

	categories := h.categoryService.ListCategories(txType)
	if categories == nil {
		categories = []models.Category{}
	}
	return SendSuccess(c, http.StatusOK, categories)
}
