package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "INCOME"
	TransactionTypeExpense = "EXPENSE"

	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"

	RecurringIntervalDaily   = "DAILY"
	RecurringIntervalWeekly  = "WEEKLY"
	RecurringIntervalMonthly = "MONTHLY"
	RecurringIntervalYearly  = "YEARLY"

	RecurringDescriptionSuffix = " (Recurring)"
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidAmount            = errors.New("transaction amount must be positive")
	ErrInvalidRecurringInterval = errors.New("invalid recurring interval")
	ErrCategoryRequired         = errors.New("transaction category is required")
)

type Transaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Type              string          `gorm:"type:varchar(10);not null" json:"type"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description       string          `gorm:"type:text" json:"description,omitempty"`
	Date              time.Time       `gorm:"not null;index" json:"date"`
	Category          string          `gorm:"type:varchar(50);not null" json:"category"`
	ReceiptURL        string          `gorm:"type:text" json:"receipt_url,omitempty"`
	IsRecurring       bool            `gorm:"not null;default:false" json:"is_recurring"`
	RecurringInterval string          `gorm:"type:varchar(10)" json:"recurring_interval,omitempty"`
	NextRecurringDate *time.Time      `gorm:"index" json:"next_recurring_date,omitempty"`
	LastProcessed     *time.Time      `json:"last_processed,omitempty"`
	Status            string          `gorm:"type:varchar(20);not null;default:'COMPLETED'" json:"status"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.Status == "" {
		t.Status = TransactionStatusCompleted
	}
	if t.Date.IsZero() {
		t.Date = now
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	t.NormalizeRecurrence()

	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if !IsValidTransactionStatus(t.Status) {
		return ErrInvalidTransactionStatus
	}

	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	if t.Category == "" {
		return ErrCategoryRequired
	}

	if t.IsRecurring && !IsValidRecurringInterval(t.RecurringInterval) {
		return fmt.Errorf("%w: %q", ErrInvalidRecurringInterval, t.RecurringInterval)
	}

	return nil
}

// NormalizeRecurrence clears the schedule of one-off transactions and seeds
// the first occurrence of recurring ones from their date.
func (t *Transaction) NormalizeRecurrence() {
	if !t.IsRecurring {
		t.RecurringInterval = ""
		t.NextRecurringDate = nil
		return
	}

	if t.NextRecurringDate == nil && IsValidRecurringInterval(t.RecurringInterval) {
		next := NextRecurringDate(t.Date, t.RecurringInterval)
		t.NextRecurringDate = &next
	}
}

// CarrySchedule keeps the live schedule of previous across an edit. The
// schedule is re-seeded only when recurrence is switched on or its interval
// or date changed, and it never moves earlier than previous's next date.
func (t *Transaction) CarrySchedule(previous *Transaction) {
	t.LastProcessed = previous.LastProcessed
	t.NextRecurringDate = nil

	if !t.IsRecurring || !previous.IsRecurring || previous.NextRecurringDate == nil {
		t.NormalizeRecurrence()
		return
	}

	live := *previous.NextRecurringDate
	if t.RecurringInterval == previous.RecurringInterval && t.Date.Equal(previous.Date) {
		t.NextRecurringDate = &live
		return
	}

	t.NormalizeRecurrence()
	if t.NextRecurringDate != nil && t.NextRecurringDate.Before(live) {
		t.NextRecurringDate = &live
	}
}

// SignedAmount is +Amount for income and -Amount for expenses.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Reversal is the balance delta that undoes this transaction.
func (t *Transaction) Reversal() decimal.Decimal {
	return t.SignedAmount().Neg()
}

func (t *Transaction) IsDue(now time.Time) bool {
	return t.IsRecurring &&
		t.Status == TransactionStatusCompleted &&
		t.NextRecurringDate != nil &&
		!t.NextRecurringDate.After(now)
}

// NextOccurrence returns the one-off copy booked when a recurring
// transaction falls due.
func (t *Transaction) NextOccurrence(now time.Time) *Transaction {
	return &Transaction{
		UserID:      t.UserID,
		AccountID:   t.AccountID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description + RecurringDescriptionSuffix,
		Date:        now,
		Category:    t.Category,
		Status:      TransactionStatusCompleted,
	}
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// NextRecurringDate advances from by one interval. Month and year steps use
// calendar arithmetic, so Jan 31 + 1 month normalizes into March.
func NextRecurringDate(from time.Time, interval string) time.Time {
	switch interval {
	case RecurringIntervalDaily:
		return from.AddDate(0, 0, 1)
	case RecurringIntervalWeekly:
		return from.AddDate(0, 0, 7)
	case RecurringIntervalMonthly:
		return from.AddDate(0, 1, 0)
	case RecurringIntervalYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from
	}
}

func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

func IsValidTransactionStatus(status string) bool {
	switch status {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return true
	default:
		return false
	}
}

func IsValidRecurringInterval(interval string) bool {
	switch interval {
	case RecurringIntervalDaily, RecurringIntervalWeekly, RecurringIntervalMonthly, RecurringIntervalYearly:
		return true
	default:
		return false
	}
}

// BulkDeleteResult reports what a bulk delete removed and how each affected
// account balance moved.
type BulkDeleteResult struct {
	DeletedCount   int                           `json:"deleted_count"`
	BalanceChanges map[uuid.UUID]decimal.Decimal `json:"balance_changes"`
}

// BalanceReversals sums the reversal of each transaction per account.
func BalanceReversals(transactions []Transaction) map[uuid.UUID]decimal.Decimal {
	changes := make(map[uuid.UUID]decimal.Decimal)
	for i := range transactions {
		t := &transactions[i]
		changes[t.AccountID] = changes[t.AccountID].Add(t.Reversal())
	}
	return changes
}

// RecurringRunResult summarizes one pass of the recurring transaction worker.
type RecurringRunResult struct {
	Due       int `json:"due"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Notified  int `json:"notified"`
}
