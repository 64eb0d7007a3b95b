package dto

import "finance-tracker/internal/models"

type ActivityResponse struct {
	Activity []*models.AuditLog `json:"activity"`
	Total    int64              `json:"total"`
	Offset   int                `json:"offset"`
	Limit    int                `json:"limit"`
}

type GenerateTestDataResponse struct {
	Message             string `json:"message"`
	TransactionsCreated int    `json:"transactions_created"`
}
