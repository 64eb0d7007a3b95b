package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccount_Validate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		account Account
		wantErr error
		errMsg  string
	}{
		{
			name:    "valid current account",
			account: Account{UserID: userID, Name: "Main", Type: AccountTypeCurrent, Balance: decimal.NewFromFloat(120.50)},
		},
		{
			name:    "negative balance is allowed",
			account: Account{UserID: userID, Name: "Overdrawn", Type: AccountTypeSavings, Balance: decimal.NewFromFloat(-40)},
		},
		{
			name:    "missing user",
			account: Account{Name: "Main", Type: AccountTypeCurrent},
			errMsg:  "user ID is required",
		},
		{
			name:    "blank name",
			account: Account{UserID: userID, Name: "   ", Type: AccountTypeCurrent},
			wantErr: ErrInvalidAccountName,
		},
		{
			name:    "name too long",
			account: Account{UserID: userID, Name: strings.Repeat("a", MaxAccountNameLength+1), Type: AccountTypeCurrent},
			wantErr: ErrAccountNameTooLong,
		},
		{
			name:    "unknown type",
			account: Account{UserID: userID, Name: "Main", Type: "checking"},
			wantErr: ErrInvalidAccountType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				assert.EqualError(t, err, tt.errMsg)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestAccount_BeforeCreateDefaults(t *testing.T) {
	account := &Account{UserID: uuid.New(), Name: "  Wallet  "}

	err := account.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.Equal(t, AccountTypeCurrent, account.Type)
	assert.Equal(t, "Wallet", account.Name)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestAccount_Apply(t *testing.T) {
	account := &Account{Balance: decimal.NewFromFloat(10)}

	account.Apply(decimal.NewFromFloat(-25.5))

	assert.True(t, account.Balance.Equal(decimal.NewFromFloat(-15.5)))
}

func TestIsValidAccountType(t *testing.T) {
	assert.True(t, IsValidAccountType(AccountTypeCurrent))
	assert.True(t, IsValidAccountType(AccountTypeSavings))
	assert.False(t, IsValidAccountType("current"))
	assert.False(t, IsValidAccountType(""))
}
