package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Messages flattens a validation failure into "field: message" lines,
// sorted by field. Errors that are not validator errors yield their text.
func Messages(err error) []string {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, fmt.Sprintf("%s: %s", fe.Field(), FieldMessage(fe)))
	}
	sort.Strings(out)
	return out
}

// FieldMessage converts a validator.FieldError to a human-readable message
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fmt.Sprintf("must be at least %s", fe.Param())
		case reflect.Float32, reflect.Float64:
			return fmt.Sprintf("must be at least %s", fe.Param())
		default:
			return fmt.Sprintf("must have minimum length/value of %s", fe.Param())
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return fmt.Sprintf("must be at most %s", fe.Param())
		case reflect.Float32, reflect.Float64:
			return fmt.Sprintf("must be at most %s", fe.Param())
		default:
			return fmt.Sprintf("must have maximum length/value of %s", fe.Param())
		}
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "alpha":
		return "must contain only alphabetic characters"
	case "alphanum":
		return "must contain only alphanumeric characters"
	case "numeric":
		return "must be a valid number"
	case "uuid":
		return "must be a valid UUID"
	case "uuid4":
		return "must be a valid UUID v4"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "required_if":
		return "is required"
	case "money_amount":
		return "must be a valid amount with at most 2 decimal places"
	case "positive_money":
		return "must be greater than 0 with at most 2 decimal places"
	case "account_type":
		return "must be a valid account type (CURRENT, SAVINGS)"
	case "transaction_type":
		return "must be a valid transaction type (INCOME, EXPENSE)"
	case "recurring_interval":
		return "must be a valid interval (DAILY, WEEKLY, MONTHLY, YEARLY)"
	default:
		return fmt.Sprintf("failed validation for '%s'", fe.Tag())
	}
}
