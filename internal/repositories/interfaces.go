package repositories

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByExternalID(externalID string) (*models.User, error)
	EnsureUser(profile *models.User) (*models.User, error)
}

// AccountRepositoryInterface defines the contract for account repository operations.
// Every lookup is scoped to the owning user; a foreign account reads as not found.
type AccountRepositoryInterface interface {
	CreateForUser(account *models.Account) error
	GetByIDForUser(userID, accountID uuid.UUID) (*models.Account, error)
	ListByUser(userID uuid.UUID) ([]models.Account, error)
	CountByUser(userID uuid.UUID) (int64, error)
	GetDefaultForUser(userID uuid.UUID) (*models.Account, error)
	UpdateName(userID, accountID uuid.UUID, name string) (*models.Account, error)
	SetDefault(userID, accountID uuid.UUID) (*models.Account, error)
	DeleteForUser(userID, accountID uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations.
// Writes that touch money keep the owning account balance in step inside one DB transaction.
type TransactionRepositoryInterface interface {
	CreateWithBalance(transaction *models.Transaction) error
	CreateBatchWithBalance(userID, accountID uuid.UUID, transactions []models.Transaction) error
	UpdateWithBalance(userID uuid.UUID, updated *models.Transaction) (*models.Transaction, error)
	GetByIDForUser(userID, id uuid.UUID) (*models.Transaction, error)
	ListByAccount(userID, accountID uuid.UUID) ([]models.Transaction, error)
	ListForUserSince(userID uuid.UUID, since *time.Time) ([]models.Transaction, error)
	ListRecentByUser(userID uuid.UUID, limit int) ([]models.Transaction, error)
	CountByAccounts(accountIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	BulkDeleteForUser(userID uuid.UUID, ids []uuid.UUID) (*models.BulkDeleteResult, error)
	ListDueRecurring(now time.Time, limit int) ([]models.Transaction, error)
	ProcessRecurring(id uuid.UUID, now time.Time) (*models.Transaction, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	ListForUser(userID uuid.UUID, filter models.ActivityFilter) ([]*models.AuditLog, int64, error)
}
