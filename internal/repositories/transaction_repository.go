package repositories

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRecurringNotDue     = errors.New("recurring transaction is not due")
)

// transactionRepository implements TransactionRepository interface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// CreateWithBalance inserts a transaction and applies its signed amount to
// the owning account in the same DB transaction.
func (r *transactionRepository) CreateWithBalance(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, transaction.UserID, transaction.AccountID)
		if err != nil {
			return err
		}

		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}

		return adjustBalance(tx, account, transaction.SignedAmount())
	})
}

// CreateBatchWithBalance inserts many transactions for one account and moves
// its balance by their net signed amount.
func (r *transactionRepository) CreateBatchWithBalance(userID, accountID uuid.UUID, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		account, err := lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		net := decimal.Zero
		for i := range transactions {
			transactions[i].UserID = userID
			transactions[i].AccountID = accountID
			net = net.Add(transactions[i].SignedAmount())
		}

		if err := tx.CreateInBatches(&transactions, 100).Error; err != nil {
			return fmt.Errorf("failed to create batch transactions: %w", err)
		}

		return adjustBalance(tx, account, net)
	})
}

// UpdateWithBalance overwrites the editable fields of an owned transaction.
// The old signed amount is reversed on the old account and the new one is
// applied to the (possibly different) new account.
func (r *transactionRepository) UpdateWithBalance(userID uuid.UUID, updated *models.Transaction) (*models.Transaction, error) {
	if updated == nil {
		return nil, errors.New("transaction cannot be nil")
	}

	var result *models.Transaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		current, err := findTransaction(tx.Clauses(clause.Locking{Strength: "UPDATE"}), userID, updated.ID)
		if err != nil {
			return err
		}

		deltas := map[uuid.UUID]decimal.Decimal{
			current.AccountID: current.Reversal(),
		}
		deltas[updated.AccountID] = deltas[updated.AccountID].Add(updated.SignedAmount())

		if err := applyDeltas(tx, userID, deltas); err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(current).Updates(map[string]interface{}{
			"account_id":          updated.AccountID,
			"type":                updated.Type,
			"amount":              updated.Amount,
			"description":         updated.Description,
			"date":                updated.Date,
			"category":            updated.Category,
			"receipt_url":         updated.ReceiptURL,
			"is_recurring":        updated.IsRecurring,
			"recurring_interval":  updated.RecurringInterval,
			"next_recurring_date": updated.NextRecurringDate,
			"updated_at":          now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		result, err = findTransaction(tx, userID, updated.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByIDForUser retrieves a transaction owned by userID
func (r *transactionRepository) GetByIDForUser(userID, id uuid.UUID) (*models.Transaction, error) {
	return findTransaction(r.db, userID, id)
}

// ListByAccount returns every transaction of an owned account, newest first
func (r *transactionRepository) ListByAccount(userID, accountID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("date DESC").
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions for account: %w", err)
	}
	return transactions, nil
}

// ListForUserSince returns the user's transactions dated on or after since,
// or all of them when since is nil, oldest first.
func (r *transactionRepository) ListForUserSince(userID uuid.UUID, since *time.Time) ([]models.Transaction, error) {
	query := r.db.Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("date >= ?", *since)
	}

	var transactions []models.Transaction
	if err := query.Order("date ASC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepository) ListRecentByUser(userID uuid.UUID, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	return transactions, nil
}

// CountByAccounts returns the number of transactions per account id
func (r *transactionRepository) CountByAccounts(accountIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(accountIDs))
	if len(accountIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AccountID uuid.UUID
		Count     int64
	}
	if err := r.db.Model(&models.Transaction{}).
		Select("account_id, COUNT(*) AS count").
		Where("account_id IN ?", accountIDs).
		Group("account_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	for _, row := range rows {
		counts[row.AccountID] = row.Count
	}
	return counts, nil
}

// BulkDeleteForUser deletes the listed transactions the user owns and
// reverses their effect on every affected account. Ids owned by someone else
// are skipped without error.
func (r *transactionRepository) BulkDeleteForUser(userID uuid.UUID, ids []uuid.UUID) (*models.BulkDeleteResult, error) {
	result := &models.BulkDeleteResult{BalanceChanges: map[uuid.UUID]decimal.Decimal{}}
	if len(ids) == 0 {
		return result, nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var owned []models.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND user_id = ?", ids, userID).
			Find(&owned).Error; err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}

		if len(owned) == 0 {
			return nil
		}

		changes := models.BalanceReversals(owned)
		if err := applyDeltas(tx, userID, changes); err != nil {
			return err
		}

		ownedIDs := make([]uuid.UUID, len(owned))
		for i := range owned {
			ownedIDs[i] = owned[i].ID
		}

		if err := tx.Where("id IN ?", ownedIDs).Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("failed to delete transactions: %w", err)
		}

		result.DeletedCount = len(owned)
		result.BalanceChanges = changes
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ListDueRecurring returns recurring templates whose next date is not after now
func (r *transactionRepository) ListDueRecurring(now time.Time, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("is_recurring = ? AND status = ? AND next_recurring_date IS NOT NULL AND next_recurring_date <= ?",
		true, models.TransactionStatusCompleted, now).
		Order("next_recurring_date ASC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get due recurring transactions: %w", err)
	}
	return transactions, nil
}

// ProcessRecurring books the next occurrence of a due recurring transaction,
// moves the account balance and advances the schedule by one interval.
// ErrRecurringNotDue means another worker got there first.
func (r *transactionRepository) ProcessRecurring(id uuid.UUID, now time.Time) (*models.Transaction, error) {
	var occurrence *models.Transaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var template models.Transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&template).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to lock recurring transaction: %w", err)
		}

		if !template.IsDue(now) {
			return ErrRecurringNotDue
		}

		account, err := lockAccount(tx, template.UserID, template.AccountID)
		if err != nil {
			return err
		}

		occurrence = template.NextOccurrence(now)
		if err := tx.Create(occurrence).Error; err != nil {
			return fmt.Errorf("failed to create recurring occurrence: %w", err)
		}

		if err := adjustBalance(tx, account, occurrence.SignedAmount()); err != nil {
			return err
		}

		next := models.NextRecurringDate(*template.NextRecurringDate, template.RecurringInterval)
		if err := tx.Model(&template).Updates(map[string]interface{}{
			"next_recurring_date": next,
			"last_processed":      now,
			"updated_at":          now,
		}).Error; err != nil {
			return fmt.Errorf("failed to advance recurring schedule: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return occurrence, nil
}

func findTransaction(db *gorm.DB, userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// applyDeltas locks each affected account in id order and moves its balance
func applyDeltas(tx *gorm.DB, userID uuid.UUID, deltas map[uuid.UUID]decimal.Decimal) error {
	accountIDs := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	sort.Slice(accountIDs, func(i, j int) bool {
		return accountIDs[i].String() < accountIDs[j].String()
	})

	for _, id := range accountIDs {
		account, err := lockAccount(tx, userID, id)
		if err != nil {
			return err
		}
		if err := adjustBalance(tx, account, deltas[id]); err != nil {
			return err
		}
	}
	return nil
}

// adjustBalance writes account.Balance + delta for an account locked in tx
func adjustBalance(tx *gorm.DB, account *models.Account, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	account.Apply(delta)
	account.UpdatedAt = time.Now()
	if err := tx.Model(account).Updates(map[string]interface{}{
		"balance":    account.Balance,
		"updated_at": account.UpdatedAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	return nil
}
