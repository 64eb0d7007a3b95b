package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountStatement is an account's activity between two dates.
type AccountStatement struct {
	AccountID      uuid.UUID              `json:"account_id"`
	AccountName    string                 `json:"account_name"`
	AccountType    string                 `json:"account_type"`
	StartDate      time.Time              `json:"start_date"`
	EndDate        time.Time              `json:"end_date"`
	OpeningBalance decimal.Decimal        `json:"opening_balance"`
	ClosingBalance decimal.Decimal        `json:"closing_balance"`
	Transactions   []StatementTransaction `json:"transactions"`
	Categories     []CategorySummary      `json:"categories"`
	Summary        StatementSummary       `json:"summary"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// StatementTransaction is a statement line with the balance after it.
type StatementTransaction struct {
	ID             uuid.UUID       `json:"id"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	IsRecurring    bool            `json:"is_recurring"`
}

type StatementSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpense     decimal.Decimal `json:"total_expense"`
	NetChange        decimal.Decimal `json:"net_change"`
	TransactionCount int             `json:"transaction_count"`
	IncomeCount      int             `json:"income_count"`
	ExpenseCount     int             `json:"expense_count"`
}
