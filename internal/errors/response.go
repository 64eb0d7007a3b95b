package errors

import (
	"fmt"
	"net/http"
)

// ErrorResponse is the failure half of the API result envelope:
// {"success": false, "error": "...", "code": "...", "trace_id": "..."}.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"error"`
	Code    string   `json:"code"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// SuccessResponse is the success half of the API result envelope.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorOption is a functional option for configuring error responses
type ErrorOption func(*ErrorResponse)

func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Details = details
	}
}

// WithMessage overrides the default message for the error code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Message = message
	}
}

func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Success: false,
		Code:    string(code),
		Message: GetErrorMessage(code),
		TraceID: traceID,
	}

	for _, opt := range opts {
		opt(response)
	}

	return response
}

func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{Success: true, Data: data}
}

// WrapSystemError hides err behind a generic system error. The original error
// is handed back for server-side logging.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationInvalidDate, ValidationInvalidQuery,
		AccountInvalidName, AccountInvalidType, AccountInvalidBalance,
		TransactionInvalidAmount, TransactionInvalidType,
		TransactionInvalidCategory, TransactionInvalidRecurrence:
		return http.StatusBadRequest

	case AuthMissingSession, AuthInvalidSession, AuthExpiredSession, AuthUserNotFound:
		return http.StatusUnauthorized

	case AuthRequestBlocked:
		return http.StatusForbidden

	case AccountNotFound, TransactionNotFound, SystemNotFound:
		return http.StatusNotFound

	case AccountDefaultDeletion, AccountNoDefaultAccount:
		return http.StatusUnprocessableEntity

	case SystemRateLimitExceeded:
		return http.StatusTooManyRequests

	case SystemServiceUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Code))
}

func (er *ErrorResponse) IsClientError() bool {
	status := er.GetHTTPStatus()
	return status >= 400 && status < 500
}

func (er *ErrorResponse) IsServerError() bool {
	return er.GetHTTPStatus() >= 500
}

func (er *ErrorResponse) String() string {
	return fmt.Sprintf("[%s] %s (trace: %s)", er.Code, er.Message, er.TraceID)
}
