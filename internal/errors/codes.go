package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthMissingSession ErrorCode = "AUTH_001"
	AuthInvalidSession ErrorCode = "AUTH_002"
	AuthExpiredSession ErrorCode = "AUTH_003"
	AuthUserNotFound   ErrorCode = "AUTH_004"
	AuthRequestBlocked ErrorCode = "AUTH_005"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationInvalidDate   ErrorCode = "VALIDATION_004"
	ValidationInvalidQuery  ErrorCode = "VALIDATION_005"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound         ErrorCode = "ACCOUNT_001"
	AccountDefaultDeletion  ErrorCode = "ACCOUNT_002"
	AccountInvalidName      ErrorCode = "ACCOUNT_003"
	AccountInvalidType      ErrorCode = "ACCOUNT_004"
	AccountInvalidBalance   ErrorCode = "ACCOUNT_005"
	AccountNoDefaultAccount ErrorCode = "ACCOUNT_006"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound          ErrorCode = "TRANSACTION_001"
	TransactionInvalidAmount     ErrorCode = "TRANSACTION_002"
	TransactionInvalidType       ErrorCode = "TRANSACTION_003"
	TransactionInvalidCategory   ErrorCode = "TRANSACTION_004"
	TransactionInvalidRecurrence ErrorCode = "TRANSACTION_005"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_004"
	SystemNotFound           ErrorCode = "SYSTEM_005"
)

var errorMessages = map[ErrorCode]string{
	AuthMissingSession: "Unauthorized",
	AuthInvalidSession: "Invalid session",
	AuthExpiredSession: "Session has expired",
	AuthUserNotFound:   "User not found",
	AuthRequestBlocked: "Request blocked",

	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationInvalidDate:   "Invalid date format or range",
	ValidationInvalidQuery:  "Invalid query parameters",

	AccountNotFound:         "Account not found",
	AccountDefaultDeletion:  "Cannot delete default account. Please set another account as default first.",
	AccountInvalidName:      "Account name is required",
	AccountInvalidType:      "Invalid account type",
	AccountInvalidBalance:   "Invalid account balance",
	AccountNoDefaultAccount: "No default account found. Please create an account first.",

	TransactionNotFound:          "Transaction not found",
	TransactionInvalidAmount:     "Amount must be greater than zero",
	TransactionInvalidType:       "Invalid transaction type",
	TransactionInvalidCategory:   "Invalid transaction category",
	TransactionInvalidRecurrence: "Recurring transactions need a valid interval",

	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
