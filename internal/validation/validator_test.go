package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moneyPayload struct {
	Balance  string `json:"balance" validate:"money_amount"`
	Amount   string `json:"amount" validate:"positive_money"`
	Type     string `json:"type" validate:"transaction_type"`
	Account  string `json:"account" validate:"account_type"`
	Interval string `json:"interval" validate:"recurring_interval"`
}

func validPayload() moneyPayload {
	return moneyPayload{Balance: "0", Amount: "12.50", Type: "EXPENSE", Account: "SAVINGS"}
}

func TestValidator_CustomTags(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		mutate     func(*moneyPayload)
		wantField  string
		wantPassed bool
	}{
		{name: "valid", mutate: func(*moneyPayload) {}, wantPassed: true},
		{name: "negative balance allowed", mutate: func(p *moneyPayload) { p.Balance = "-20.10" }, wantPassed: true},
		{name: "lowercase enums accepted", mutate: func(p *moneyPayload) { p.Type = "income"; p.Account = "current" }, wantPassed: true},
		{name: "interval accepted", mutate: func(p *moneyPayload) { p.Interval = "MONTHLY" }, wantPassed: true},
		{name: "balance not a number", mutate: func(p *moneyPayload) { p.Balance = "abc" }, wantField: "balance"},
		{name: "three decimals rejected", mutate: func(p *moneyPayload) { p.Amount = "1.234" }, wantField: "amount"},
		{name: "zero amount rejected", mutate: func(p *moneyPayload) { p.Amount = "0" }, wantField: "amount"},
		{name: "unknown transaction type", mutate: func(p *moneyPayload) { p.Type = "TRANSFER" }, wantField: "type"},
		{name: "unknown account type", mutate: func(p *moneyPayload) { p.Account = "CHECKING" }, wantField: "account"},
		{name: "unknown interval", mutate: func(p *moneyPayload) { p.Interval = "HOURLY" }, wantField: "interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)

			err := v.Struct(p)
			if tt.wantPassed {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field())
		})
	}
}

func TestParseMoney(t *testing.T) {
	amount, ok := ParseMoney(" 12.500 ")
	assert.True(t, ok)
	assert.Equal(t, "12.5", amount.String())

	_, ok = ParseMoney("12.345")
	assert.False(t, ok)

	_, ok = ParseMoney("")
	assert.False(t, ok)
}

func TestGetValidator_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
