package handlers

import (
	"log/slog"
	"net/http"

	"finance-tracker/internal/errors"

	"github.com/labstack/echo/v4"
)

// Handlers answer with SendSuccess on the happy path, SendError for client
// and domain failures (4xx) and SendSystemError for anything unexpected.
// SendSystemError never exposes the underlying error to the caller.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendSuccess wraps data in the success envelope.
func SendSuccess(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, errors.NewSuccessResponse(data))
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internal := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", traceID,
		"path", c.Path(),
		"error", internal,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}
