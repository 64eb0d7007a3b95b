package models

import "github.com/shopspring/decimal"

// CategorySummary aggregates a statement period's transactions by category.
type CategorySummary struct {
	Category         string          `json:"category"`
	Type             string          `json:"type"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}
