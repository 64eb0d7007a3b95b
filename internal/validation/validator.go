package validation

import (
	"reflect"
	"strings"
	"sync"

	"finance-tracker/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator wraps the go-playground validator with the finance tracker's
// custom rules and json field naming.
type Validator struct {
	validate *validator.Validate
}

// GetValidate returns the underlying validator.Validate instance for use with Echo
func (v *Validator) GetValidate() *validator.Validate {
	return v.validate
}

var (
	instance *Validator
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	once.Do(func() {
		instance = NewValidator()
	})
	return instance
}

func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("money_amount", validateMoneyAmount)
	_ = v.RegisterValidation("positive_money", validatePositiveMoney)
	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("recurring_interval", validateRecurringInterval)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// ParseMoney parses a decimal string with at most two fractional digits.
func ParseMoney(value string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, false
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return decimal.Zero, false
	}
	return amount, true
}

// validateMoneyAmount accepts any decimal string with at most 2 decimal places,
// including zero and negatives (opening balances may be overdrawn).
func validateMoneyAmount(fl validator.FieldLevel) bool {
	_, ok := ParseMoney(fl.Field().String())
	return ok
}

func validatePositiveMoney(fl validator.FieldLevel) bool {
	amount, ok := ParseMoney(fl.Field().String())
	return ok && amount.IsPositive()
}

func validateAccountType(fl validator.FieldLevel) bool {
	return models.IsValidAccountType(strings.ToUpper(fl.Field().String()))
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.IsValidTransactionType(strings.ToUpper(fl.Field().String()))
}

// validateRecurringInterval allows empty so it composes with required_if.
func validateRecurringInterval(fl validator.FieldLevel) bool {
	interval := fl.Field().String()
	return interval == "" || models.IsValidRecurringInterval(strings.ToUpper(interval))
}
