package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/validation"

	"github.com/google/uuid"
)

const (
	DefaultTestDataDays  = 90
	DefaultTestDataCount = 60

	transactionDateLayout = "2006-01-02"
)

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidRecurrence      = errors.New("invalid recurring interval")
	ErrInvalidDate            = errors.New("invalid transaction date")
	ErrInvalidQuery           = errors.New("invalid transaction query")
)

type transactionService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	categories      CategoryServiceInterface
	generator       TransactionGeneratorInterface
	audit           AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewTransactionService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	categories CategoryServiceInterface,
	generator TransactionGeneratorInterface,
	audit AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		categories:      categories,
		generator:       generator,
		audit:           audit,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateTransaction records a transaction and moves the account balance by
// its signed amount. Without an account id the user's default account is used.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	transaction, err := s.buildTransaction(userID, req)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.CreateWithBalance(transaction); err != nil {
		return nil, mapTransactionError(err)
	}

	s.reconciled(ctx, map[uuid.UUID]string{transaction.AccountID: transaction.SignedAmount().StringFixed(2)}, "create")
	s.audit.Record(ctx, &userID, models.AuditActionTransactionCreated, models.AuditResourceTransaction, transaction.ID.String(), map[string]interface{}{
		"account_id": transaction.AccountID.String(),
		"type":       transaction.Type,
		"amount":     transaction.Amount.StringFixed(2),
		"category":   transaction.Category,
	})

	return transaction, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.transactionRepo.GetByIDForUser(userID, transactionID)
	if err != nil {
		return nil, mapTransactionError(err)
	}
	return transaction, nil
}

// UpdateTransaction replaces the editable fields of a transaction. The old
// amount is reversed and the new one applied, across accounts if it moved.
func (s *transactionService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	current, err := s.transactionRepo.GetByIDForUser(userID, transactionID)
	if err != nil {
		return nil, mapTransactionError(err)
	}

	changes := *req
	if changes.AccountID == nil {
		accountID := current.AccountID
		changes.AccountID = &accountID
	}

	updated, err := s.buildTransaction(userID, &changes)
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.Status = current.Status
	updated.CarrySchedule(current)
	if err := updated.Validate(); err != nil {
		return nil, mapTransactionError(err)
	}

	saved, err := s.transactionRepo.UpdateWithBalance(userID, updated)
	if err != nil {
		return nil, mapTransactionError(err)
	}

	deltas := map[uuid.UUID]string{}
	if current.AccountID == saved.AccountID {
		deltas[saved.AccountID] = saved.SignedAmount().Add(current.Reversal()).StringFixed(2)
	} else {
		deltas[current.AccountID] = current.Reversal().StringFixed(2)
		deltas[saved.AccountID] = saved.SignedAmount().StringFixed(2)
	}
	s.reconciled(ctx, deltas, "update")
	s.audit.Record(ctx, &userID, models.AuditActionTransactionUpdated, models.AuditResourceTransaction, saved.ID.String(), map[string]interface{}{
		"account_id": saved.AccountID.String(),
		"amount":     saved.Amount.StringFixed(2),
		"type":       saved.Type,
	})

	return saved, nil
}

// BulkDeleteTransactions removes the caller's transactions among ids and
// reverses their effect on each account. Foreign ids are ignored.
func (s *transactionService) BulkDeleteTransactions(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result, err := s.transactionRepo.BulkDeleteForUser(userID, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to delete transactions: %w", err)
	}

	if result.DeletedCount == 0 {
		return result, nil
	}

	deltas := make(map[uuid.UUID]string, len(result.BalanceChanges))
	for accountID, delta := range result.BalanceChanges {
		deltas[accountID] = delta.StringFixed(2)
	}
	s.reconciled(ctx, deltas, "bulk_delete")
	s.metrics.RecordGauge(MetricTransactionsDeleted, float64(result.DeletedCount), nil)
	s.auditLogger.LogTransactionsBulkDeleted(ctx, userID, len(ids), result.DeletedCount)
	s.audit.Record(ctx, &userID, models.AuditActionTransactionsDeleted, models.AuditResourceTransaction, "", map[string]interface{}{
		"requested": len(ids),
		"deleted":   result.DeletedCount,
		"accounts":  len(result.BalanceChanges),
	})

	return result, nil
}

// ListAccountTransactions applies the table view to an owned account's history
func (s *transactionService) ListAccountTransactions(ctx context.Context, userID, accountID uuid.UUID, query models.TransactionQuery) (*models.TransactionPage, error) {
	if _, err := s.accountRepo.GetByIDForUser(userID, accountID); err != nil {
		return nil, mapAccountError(err)
	}

	transactions, err := s.transactionRepo.ListByAccount(userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	page, err := ApplyTransactionView(transactions, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return page, nil
}

// GenerateTestData fills an owned account with fake history for local use
func (s *transactionService) GenerateTestData(ctx context.Context, userID, accountID uuid.UUID, days, count int) (int, error) {
	if _, err := s.accountRepo.GetByIDForUser(userID, accountID); err != nil {
		return 0, mapAccountError(err)
	}

	if days <= 0 {
		days = DefaultTestDataDays
	}
	if count <= 0 {
		count = DefaultTestDataCount
	}

	end := s.now()
	generated := s.generator.GenerateHistory(end.AddDate(0, 0, -days), end, count)
	if err := s.transactionRepo.CreateBatchWithBalance(userID, accountID, generated); err != nil {
		return 0, mapTransactionError(err)
	}

	s.audit.Record(ctx, &userID, models.AuditActionTestDataGenerated, models.AuditResourceAccount, accountID.String(), map[string]interface{}{
		"days":  days,
		"count": len(generated),
	})

	return len(generated), nil
}

func (s *transactionService) buildTransaction(userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	txType := strings.ToUpper(strings.TrimSpace(req.Type))
	if !models.IsValidTransactionType(txType) {
		return nil, ErrInvalidTransactionType
	}

	amount, ok := validation.ParseMoney(req.Amount)
	if !ok || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.ResolveCategory(req.Category, txType)
	if err != nil {
		return nil, err
	}

	interval := ""
	if req.IsRecurring {
		interval = strings.ToUpper(strings.TrimSpace(req.RecurringInterval))
		if !models.IsValidRecurringInterval(interval) {
			return nil, ErrInvalidRecurrence
		}
	}

	accountID, err := s.resolveAccount(userID, req.AccountID)
	if err != nil {
		return nil, err
	}

	return &models.Transaction{
		UserID:            userID,
		AccountID:         accountID,
		Type:              txType,
		Amount:            amount,
		Description:       strings.TrimSpace(req.Description),
		Date:              date,
		Category:          category,
		ReceiptURL:        strings.TrimSpace(req.ReceiptURL),
		IsRecurring:       req.IsRecurring,
		RecurringInterval: interval,
	}, nil
}

func (s *transactionService) resolveAccount(userID uuid.UUID, accountID *uuid.UUID) (uuid.UUID, error) {
	if accountID != nil && *accountID != uuid.Nil {
		account, err := s.accountRepo.GetByIDForUser(userID, *accountID)
		if err != nil {
			return uuid.Nil, mapAccountError(err)
		}
		return account.ID, nil
	}

	account, err := s.accountRepo.GetDefaultForUser(userID)
	if err != nil {
		return uuid.Nil, mapAccountError(err)
	}
	return account.ID, nil
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func (s *transactionService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.now().UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(transactionDateLayout, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

func (s *transactionService) reconciled(ctx context.Context, deltas map[uuid.UUID]string, reason string) {
	for accountID, delta := range deltas {
		s.metrics.IncrementCounter(MetricBalanceReconciled, map[string]string{"reason": reason})
		s.auditLogger.LogBalanceReconciled(ctx, accountID, delta, reason)
	}
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapTransactionError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTransactionNotFound):
		return ErrTransactionNotFound
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, models.ErrInvalidAmount):
		return ErrInvalidAmount
	case errors.Is(err, models.ErrInvalidTransactionType):
		return ErrInvalidTransactionType
	case errors.Is(err, models.ErrInvalidRecurringInterval):
		return ErrInvalidRecurrence
	case errors.Is(err, models.ErrCategoryRequired):
		return ErrInvalidCategory
	default:
		return fmt.Errorf("transaction operation failed: %w", err)
	}
}
