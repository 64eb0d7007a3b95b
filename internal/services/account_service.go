package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrDefaultAccountDeletion = errors.New("cannot delete default account")
	ErrNoDefaultAccount       = errors.New("no default account")
	ErrInvalidAccountName     = errors.New("invalid account name")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidBalance         = errors.New("invalid balance")
)

// accountService implements AccountServiceInterface interface
type accountService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	audit           AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

// NewAccountService creates an account service
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	audit AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		audit:           audit,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
	}
}

// CreateAccount creates a new account for a user. The first account a user
// creates becomes the default regardless of the request.
func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error) {
	accountType := strings.ToUpper(strings.TrimSpace(req.Type))
	if !models.IsValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	name := strings.TrimSpace(req.Name)
	if err := models.ValidateAccountName(name); err != nil {
		return nil, ErrInvalidAccountName
	}

	balance := decimal.Zero
	if strings.TrimSpace(req.Balance) != "" {
		parsed, ok := validation.ParseMoney(req.Balance)
		if !ok {
			return nil, ErrInvalidBalance
		}
		balance = parsed
	}

	account := &models.Account{
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Balance:   balance,
		IsDefault: req.IsDefault,
	}

	if err := s.accountRepo.CreateForUser(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.audit.Record(ctx, &userID, models.AuditActionAccountCreated, models.AuditResourceAccount, account.ID.String(), map[string]interface{}{
		"name":       account.Name,
		"type":       account.Type,
		"balance":    account.Balance.StringFixed(2),
		"is_default": account.IsDefault,
	})

	return account, nil
}

// GetUserAccounts lists the user's accounts with their transaction counts
func (s *accountService) GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]dto.AccountSummary, error) {
	accounts, err := s.accountRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	ids := make([]uuid.UUID, len(accounts))
	for i := range accounts {
		ids[i] = accounts[i].ID
	}

	counts, err := s.transactionRepo.CountByAccounts(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	summaries := make([]dto.AccountSummary, len(accounts))
	for i := range accounts {
		summaries[i] = dto.AccountSummary{
			Account:          accounts[i],
			TransactionCount: counts[accounts[i].ID],
		}
	}

	return summaries, nil
}

// GetAccountWithTransactions returns an owned account and its full history
func (s *accountService) GetAccountWithTransactions(ctx context.Context, userID, accountID uuid.UUID) (*dto.AccountDetail, error) {
	account, err := s.accountRepo.GetByIDForUser(userID, accountID)
	if err != nil {
		return nil, mapAccountError(err)
	}

	transactions, err := s.transactionRepo.ListByAccount(userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &dto.AccountDetail{
		Account:          *account,
		TransactionCount: int64(len(transactions)),
		Transactions:     transactions,
	}, nil
}

// UpdateAccount renames an account
func (s *accountService) UpdateAccount(ctx context.Context, userID, accountID uuid.UUID, req *dto.UpdateAccountRequest) (*models.Account, error) {
	account, err := s.accountRepo.UpdateName(userID, accountID, req.Name)
	if err != nil {
		return nil, mapAccountError(err)
	}

	s.audit.Record(ctx, &userID, models.AuditActionAccountUpdated, models.AuditResourceAccount, account.ID.String(), map[string]interface{}{
		"name": account.Name,
	})

	return account, nil
}

// UpdateDefaultAccount makes accountID the user's sole default account
func (s *accountService) UpdateDefaultAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.SetDefault(userID, accountID)
	if err != nil {
		return nil, mapAccountError(err)
	}

	s.metrics.IncrementCounter(MetricDefaultAccountChanged, nil)
	s.auditLogger.LogDefaultAccountChanged(ctx, userID, accountID)
	s.audit.Record(ctx, &userID, models.AuditActionAccountDefaultChanged, models.AuditResourceAccount, account.ID.String(), nil)

	return account, nil
}

// DeleteAccount removes an account with its transactions
func (s *accountService) DeleteAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	if err := s.accountRepo.DeleteForUser(userID, accountID); err != nil {
		return mapAccountError(err)
	}

	s.audit.Record(ctx, &userID, models.AuditActionAccountDeleted, models.AuditResourceAccount, accountID.String(), nil)
	s.logger.InfoContext(ctx, "account deleted",
		"user_id", userID,
		"account_id", accountID,
	)

	return nil
}

func mapAccountError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrDefaultAccountDeletion):
		return ErrDefaultAccountDeletion
	case errors.Is(err, repositories.ErrNoDefaultAccount):
		return ErrNoDefaultAccount
	case errors.Is(err, models.ErrInvalidAccountName), errors.Is(err, models.ErrAccountNameTooLong):
		return ErrInvalidAccountName
	case errors.Is(err, models.ErrInvalidAccountType):
		return ErrInvalidAccountType
	default:
		return fmt.Errorf("account operation failed: %w", err)
	}
}
