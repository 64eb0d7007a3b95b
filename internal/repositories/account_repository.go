package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrDefaultAccountDeletion = errors.New("cannot delete the default account while other accounts exist")
	ErrNoDefaultAccount       = errors.New("user has no default account")
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// CreateForUser creates an account. A user's first account is always the
// default, and a new default account takes the flag from the others.
func (r *accountRepository) CreateForUser(account *models.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Account{}).
			Where("user_id = ?", account.UserID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count user accounts: %w", err)
		}

		if existing == 0 {
			account.IsDefault = true
		}

		if account.IsDefault && existing > 0 {
			if err := clearDefaults(tx, account.UserID, uuid.Nil); err != nil {
				return err
			}
		}

		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		return nil
	})
}

// GetByIDForUser retrieves an account owned by userID
func (r *accountRepository) GetByIDForUser(userID, accountID uuid.UUID) (*models.Account, error) {
	return findAccount(r.db, userID, accountID)
}

// ListByUser returns the user's accounts, default first then newest
func (r *accountRepository) ListByUser(userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

func (r *accountRepository) CountByUser(userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// GetDefaultForUser retrieves the user's default account
func (r *accountRepository) GetDefaultForUser(userID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("user_id = ? AND is_default = ?", userID, true).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDefaultAccount
		}
		return nil, fmt.Errorf("failed to get default account: %w", err)
	}
	return &account, nil
}

// UpdateName renames an account
func (r *accountRepository) UpdateName(userID, accountID uuid.UUID, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if err := models.ValidateAccountName(name); err != nil {
		return nil, err
	}

	var account *models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(account).Updates(map[string]interface{}{
			"name":       name,
			"updated_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to rename account: %w", err)
		}

		account.Name = name
		account.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// SetDefault makes accountID the user's only default account. An unknown or
// foreign account leaves every flag untouched.
func (r *accountRepository) SetDefault(userID, accountID uuid.UUID) (*models.Account, error) {
	var account *models.Account
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		account, err = lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		if err := clearDefaults(tx, userID, accountID); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(account).Updates(map[string]interface{}{
			"is_default": true,
			"updated_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to set default account: %w", err)
		}

		account.IsDefault = true
		account.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteForUser removes an account and its transactions. The default account
// can only go when it is the user's last one.
func (r *accountRepository) DeleteForUser(userID, accountID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		if account.IsDefault {
			var count int64
			if err := tx.Model(&models.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to count accounts: %w", err)
			}
			if count > 1 {
				return ErrDefaultAccountDeletion
			}
		}

		if err := tx.Where("account_id = ?", accountID).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("failed to delete account transactions: %w", err)
		}

		if err := tx.Delete(account).Error; err != nil {
			return fmt.Errorf("failed to delete account: %w", err)
		}
		return nil
	})
}

func findAccount(db *gorm.DB, userID, accountID uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// lockAccount reads an owned account FOR UPDATE inside tx
func lockAccount(tx *gorm.DB, userID, accountID uuid.UUID) (*models.Account, error) {
	return findAccount(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, accountID)
}

// clearDefaults unsets is_default on every account of userID except keep
func clearDefaults(tx *gorm.DB, userID, keep uuid.UUID) error {
	query := tx.Model(&models.Account{}).Where("user_id = ? AND is_default = ?", userID, true)
	if keep != uuid.Nil {
		query = query.Where("id <> ?", keep)
	}

	if err := query.Updates(map[string]interface{}{
		"is_default": false,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fmt.Errorf("failed to clear default accounts: %w", err)
	}
	return nil
}
