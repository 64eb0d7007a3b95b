package services

import (
	"sort"
	"strings"

	"finance-tracker/internal/models"
)

// ApplyTransactionView filters, sorts and pages an in-memory transaction
// list the way the account transaction table presents it. The input slice
// is left untouched.
func ApplyTransactionView(list []models.Transaction, query models.TransactionQuery) (*models.TransactionPage, error) {
	if err := query.Normalize(); err != nil {
		return nil, err
	}

	filtered := filterTransactions(list, query)
	sortTransactions(filtered, query.Sort)

	totalItems := len(filtered)
	totalPages := max(1, (totalItems+models.TransactionPageSize-1)/models.TransactionPageSize)
	page := min(max(query.Page, 1), totalPages)

	start := min((page-1)*models.TransactionPageSize, totalItems)
	end := min(start+models.TransactionPageSize, totalItems)

	return &models.TransactionPage{
		Transactions: filtered[start:end],
		Page:         page,
		PageSize:     models.TransactionPageSize,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		PageRange:    models.PageRange(page, totalPages),
		Sort:         query.Sort,
	}, nil
}

func filterTransactions(list []models.Transaction, query models.TransactionQuery) []models.Transaction {
	search := strings.ToLower(query.Search)

	out := make([]models.Transaction, 0, len(list))
	for _, t := range list {
		if search != "" && !strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if query.Type != "" && t.Type != query.Type {
			continue
		}
		switch query.Recurring {
		case models.RecurringFilterRecurring:
			if !t.IsRecurring {
				continue
			}
		case models.RecurringFilterNonRecurring:
			if t.IsRecurring {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func sortTransactions(list []models.Transaction, order models.TransactionSort) {
	sort.SliceStable(list, func(i, j int) bool {
		c := compareTransactions(&list[i], &list[j], order.Field)
		if order.Direction == models.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func compareTransactions(a, b *models.Transaction, field string) int {
	switch field {
	case models.SortFieldAmount:
		return a.Amount.Cmp(b.Amount)
	case models.SortFieldCategory:
		return strings.Compare(a.Category, b.Category)
	default:
		return a.Date.Compare(b.Date)
	}
}
