package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	AccountTypeCurrent = "CURRENT"
	AccountTypeSavings = "SAVINGS"

	MaxAccountNameLength = 100
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAccountName = errors.New("account name is required")
	ErrAccountNameTooLong = errors.New("account name is too long")
)

// Account is a user's bank or cash account. Balance may go negative when
// expenses exceed income. At most one account per user has IsDefault set.
type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string          `gorm:"type:varchar(100);not null" json:"name"`
	Type      string          `gorm:"type:varchar(20);not null" json:"type"`
	Balance   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	IsDefault bool            `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.Type == "" {
		a.Type = AccountTypeCurrent
	}
	a.Name = strings.TrimSpace(a.Name)

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if err := ValidateAccountName(a.Name); err != nil {
		return err
	}

	if !IsValidAccountType(a.Type) {
		return ErrInvalidAccountType
	}

	return nil
}

// Apply adds a signed delta to the in-memory balance.
func (a *Account) Apply(delta decimal.Decimal) {
	a.Balance = a.Balance.Add(delta)
}

func (a *Account) TableName() string {
	return "accounts"
}

func ValidateAccountName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrInvalidAccountName
	}
	if len(trimmed) > MaxAccountNameLength {
		return ErrAccountNameTooLong
	}
	return nil
}

func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeCurrent, AccountTypeSavings:
		return true
	default:
		return false
	}
}
