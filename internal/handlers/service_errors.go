package handlers

import (
	stderrors "errors"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

var serviceErrorCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrAccountNotFound, errors.AccountNotFound},
	{services.ErrDefaultAccountDeletion, errors.AccountDefaultDeletion},
	{services.ErrNoDefaultAccount, errors.AccountNoDefaultAccount},
	{services.ErrInvalidAccountName, errors.AccountInvalidName},
	{services.ErrInvalidAccountType, errors.AccountInvalidType},
	{services.ErrInvalidBalance, errors.AccountInvalidBalance},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrInvalidAmount, errors.TransactionInvalidAmount},
	{services.ErrInvalidTransactionType, errors.TransactionInvalidType},
	{services.ErrInvalidRecurrence, errors.TransactionInvalidRecurrence},
	{services.ErrInvalidCategory, errors.TransactionInvalidCategory},
	{services.ErrInvalidDate, errors.ValidationInvalidDate},
	{services.ErrInvalidDateRange, errors.ValidationInvalidDate},
	{services.ErrFuturePeriod, errors.ValidationInvalidDate},
	{services.ErrInvalidQuery, errors.ValidationInvalidQuery},
	{services.ErrInvalidActivityFilter, errors.ValidationInvalidQuery},
}

// sendServiceError maps a service sentinel to its API error code. Records
// the user does not own surface as not found. Anything unrecognised is a
// system error.
func sendServiceError(c echo.Context, err error) error {
	for _, m := range serviceErrorCodes {
		if stderrors.Is(err, m.err) {
			return SendError(c, m.code, errors.WithDetails(err.Error()))
		}
	}
	return SendSystemError(c, err)
}
