package dto

import (
	"github.com/google/uuid"
)

// TransactionRequest is the payload for creating or updating a transaction.
// Date accepts RFC 3339 or YYYY-MM-DD; an omitted account falls back to the
// user's default account.
type TransactionRequest struct {
	Type              string     `json:"type" validate:"required,transaction_type"`
	Amount            string     `json:"amount" validate:"required,positive_money"`
	Description       string     `json:"description" validate:"max=255"`
	Date              string     `json:"date"`
	AccountID         *uuid.UUID `json:"account_id"`
	Category          string     `json:"category" validate:"required,max=50"`
	ReceiptURL        string     `json:"receipt_url" validate:"omitempty,url"`
	IsRecurring       bool       `json:"is_recurring"`
	RecurringInterval string     `json:"recurring_interval" validate:"required_if=IsRecurring true,recurring_interval"`
}

type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"max=500"`
}

type GenerateTestDataRequest struct {
	Days  int `json:"days" validate:"omitempty,min=1,max=365"`
	Count int `json:"count" validate:"omitempty,min=1,max=500"`
}

// TransactionListQuery binds the transaction table query string.
type TransactionListQuery struct {
	Search    string `query:"search"`
	Type      string `query:"type"`
	Recurring string `query:"recurring"`
	Sort      string `query:"sort"`
	Direction string `query:"direction"`
	Toggle    string `query:"toggle"`
	Page      int    `query:"page"`
}
