package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/validation"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var apiErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_errors_total",
		Help: "Total number of API errors by code, route, and status",
	},
	[]string{"code", "endpoint", "status"},
)

// CustomHTTPErrorHandler renders any error that escapes a handler in the
// standard envelope. Handlers normally answer with SendError themselves, so
// what reaches this point is echo's own errors (unknown route, body too
// large), validator errors and unexpected failures.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	traceID := GetTraceID(c)
	if traceID == "" {
		traceID = "unknown"
	}

	body, status := errorResponseFor(err, traceID)

	req := c.Request()
	level := slog.LevelWarn
	switch {
	case stderrors.Is(err, context.Canceled):
		level = slog.LevelInfo
	case status >= http.StatusInternalServerError:
		level = slog.LevelError
	}
	slog.Log(req.Context(), level, "request failed",
		"trace_id", traceID,
		"error_code", body.Code,
		"status", status,
		"path", req.URL.Path,
		"method", req.Method,
		"error", err.Error(),
	)

	apiErrorsTotal.WithLabelValues(body.Code, c.Path(), strconv.Itoa(status)).Inc()

	if sendErr := c.JSON(status, body); sendErr != nil {
		slog.Error("failed to send error response", "trace_id", traceID, "error", sendErr)
	}
}

func errorResponseFor(err error, traceID string) (*errors.ErrorResponse, int) {
	var echoErr *echo.HTTPError
	var fieldErrs validator.ValidationErrors

	switch {
	case stderrors.As(err, &echoErr):
		body := errors.NewErrorResponse(
			mapHTTPStatusToErrorCode(echoErr.Code),
			traceID,
			errors.WithMessage(fmt.Sprintf("%v", echoErr.Message)),
		)
		return body, echoErr.Code

	case stderrors.As(err, &fieldErrs):
		body := errors.NewErrorResponse(errors.ValidationGeneral, traceID, errors.WithDetails(validation.Messages(fieldErrs)...))
		return body, http.StatusBadRequest

	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewErrorResponse(errors.SystemServiceUnavailable, traceID), http.StatusServiceUnavailable

	default:
		body, _ := errors.WrapSystemError(err, traceID)
		return body, body.GetHTTPStatus()
	}
}

func mapHTTPStatusToErrorCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity,
		http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return errors.ValidationGeneral
	case http.StatusUnauthorized:
		return errors.AuthMissingSession
	case http.StatusForbidden:
		return errors.AuthRequestBlocked
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.SystemNotFound
	case http.StatusTooManyRequests:
		return errors.SystemRateLimitExceeded
	case http.StatusServiceUnavailable:
		return errors.SystemServiceUnavailable
	default:
		return errors.SystemInternalError
	}
}
