package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finance-tracker/internal/validation"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

const queryDateLayout = "2006-01-02"

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get("user_id")
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

func getUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := strings.TrimSpace(c.QueryParam(name))
	if param == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return defaultValue
	}

	return value
}

// getDateParam parses a YYYY-MM-DD query parameter; ok is false when the
// parameter is absent.
func getDateParam(c echo.Context, name string) (t time.Time, ok bool, err error) {
	param := strings.TrimSpace(c.QueryParam(name))
	if param == "" {
		return time.Time{}, false, nil
	}

	t, err = time.Parse(queryDateLayout, param)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

func validationDetails(err error) []string {
	return validation.Messages(err)
}
