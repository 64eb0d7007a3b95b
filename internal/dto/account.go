package dto

import (
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

type CreateAccountRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Type      string `json:"type" validate:"required,account_type"`
	Balance   string `json:"balance" validate:"omitempty,money_amount"`
	IsDefault bool   `json:"is_default"`
}

type UpdateAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AccountSummary is an account as listed on the dashboard.
type AccountSummary struct {
	models.Account
	TransactionCount int64 `json:"transaction_count"`
}

// AccountDetail is an account with its full history, newest first.
type AccountDetail struct {
	models.Account
	TransactionCount int64                `json:"transaction_count"`
	Transactions     []models.Transaction `json:"transactions"`
}

type DashboardResponse struct {
	Accounts           []AccountSummary     `json:"accounts"`
	DefaultAccountID   *uuid.UUID           `json:"default_account_id,omitempty"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	Chart              *models.ChartData    `json:"chart"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
