package services

import (
	"context"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// AccountServiceInterface defines account-related business operations
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error)
	GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]dto.AccountSummary, error)
	GetAccountWithTransactions(ctx context.Context, userID, accountID uuid.UUID) (*dto.AccountDetail, error)
	UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, req *dto.UpdateAccountRequest) (*models.Account, error)
	UpdateDefaultAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error)
	DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error
}

// TransactionServiceInterface defines transaction-related business operations
type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error)
	BulkDeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*models.BulkDeleteResult, error)
	ListAccountTransactions(ctx context.Context, userID, accountID uuid.UUID, query models.TransactionQuery) (*models.TransactionPage, error)
	GenerateTestData(ctx context.Context, userID, accountID uuid.UUID, days, count int) (int, error)
}

// ChartServiceInterface aggregates transactions into daily chart series
type ChartServiceInterface interface {
	GetAccountChart(ctx context.Context, userID, accountID uuid.UUID, chartRange models.ChartRange) (*models.ChartData, error)
	GetDashboard(ctx context.Context, userID uuid.UUID, chartRange models.ChartRange) (*dto.DashboardResponse, error)
}

// CategoryServiceInterface maps free-text categories onto the catalogue
type CategoryServiceInterface interface {
	ListCategories(transactionType string) []models.Category
	ResolveCategory(input, transactionType string) (string, error)
}

// StatementServiceInterface provides account statement generation
type StatementServiceInterface interface {
	GenerateStatement(ctx context.Context, userID, accountID uuid.UUID, from, to time.Time) (*models.AccountStatement, error)
	RenderPDF(statement *models.AccountStatement) ([]byte, error)
}

// TransactionGeneratorInterface generates realistic transaction data for development
type TransactionGeneratorInterface interface {
	GenerateHistory(start, end time.Time, count int) []models.Transaction
	GenerateAmount(category string) string
	GenerateTimestamp(start, end time.Time) time.Time
}

// RecurringServiceInterface books due occurrences of recurring transactions
type RecurringServiceInterface interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context) (models.RecurringRunResult, error)
}

// NotificationServiceInterface sends transactional email
type NotificationServiceInterface interface {
	SendEmail(ctx context.Context, to, subject, html string) error
	SendRecurringSummary(ctx context.Context, user *models.User, occurrences []models.Transaction) error
}

// SessionVerifierInterface validates session tokens issued by the identity provider
type SessionVerifierInterface interface {
	Verify(tokenString string) (*models.SessionClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

// ShieldServiceInterface asks the shield API whether a request may proceed
type ShieldServiceInterface interface {
	Decide(ctx context.Context, details dto.ShieldRequestDetails) (*dto.ShieldDecision, error)
}

// AuditServiceInterface records and lists the user-visible audit trail
type AuditServiceInterface interface {
	Record(ctx context.Context, userID *uuid.UUID, action, resource, resourceID string, metadata map[string]interface{})
	GetUserActivity(userID uuid.UUID, filter models.ActivityFilter) ([]*models.AuditLog, int64, error)
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuditLoggerInterface interface {
	LogBalanceReconciled(ctx context.Context, accountID uuid.UUID, delta, reason string)
	LogDefaultAccountChanged(ctx context.Context, userID, accountID uuid.UUID)
	LogTransactionsBulkDeleted(ctx context.Context, userID uuid.UUID, requested, deleted int)
	LogRecurringProcessed(ctx context.Context, templateID, occurrenceID uuid.UUID, durationMs int64)
	LogRecurringFailed(ctx context.Context, templateID uuid.UUID, errorMsg string)
	LogRecurringRunCompleted(ctx context.Context, processed, failed int, durationMs int64)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
	LogShieldDecision(ctx context.Context, conclusion, reason, ip, path string, dryRun bool)
	LogEmailSent(ctx context.Context, to, subject, messageID string)
	LogEmailFailed(ctx context.Context, to, subject, errorMsg string)
}

type CircuitBreakerInterface interface {
	Name() string
	Allow() bool
	RecordSuccess()
	RecordFailure()
	GetState() string
	Reset()
	GetFailureCount() int
}
