package handlers

import (
	"net/http"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler exposes the user's own audit trail
type ActivityHandler struct {
	auditService services.AuditServiceInterface
}

func NewActivityHandler(auditService services.AuditServiceInterface) *ActivityHandler {
	return &ActivityHandler{auditService: auditService}
}

// GetActivity pages through the authenticated user's audit trail, newest first
// @Summary Recent activity
// @Tags Activity
// @Security SessionAuth
// @Produce json
// @Param offset query int false "Offset (default 0)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param resource query string false "account or transaction"
// @Param resource_id query string false "Only entries about this account or transaction"
// @Success 200 {object} errors.SuccessResponse "Activity page"
// @Router /activity [get]
func (h *ActivityHandler) GetActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingSession)
	}

	offset := max(getIntParam(c, "offset", 0), 0)
	limit := getIntParam(c, "limit", defaultActivityLimit)
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	filter := models.ActivityFilter{
		Resource:   c.QueryParam("resource"),
		ResourceID: c.QueryParam("resource_id"),
		Offset:     offset,
		Limit:      limit,
	}
	if filter.ResourceID != "" {
		if _, err := uuid.Parse(filter.ResourceID); err != nil {
			return SendError(c, errors.ValidationInvalidFormat, errors.WithMessage("Invalid resource ID"))
		}
	}

	logs, total, err := h.auditService.GetUserActivity(userID, filter)
	if err != nil {
		return sendServiceError(c, err)
	}
	if logs == nil {
		logs = []*models.AuditLog{}
	}

	return SendSuccess(c, http.StatusOK, dto.ActivityResponse{
		Activity: logs,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	})
}
