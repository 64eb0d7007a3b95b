package services

import (
	"fmt"
	"testing"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewFixture() []models.Transaction {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return []models.Transaction{
		{Description: "Coffee", Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(4), Category: "food", Date: base.AddDate(0, 0, 3)},
		{Description: "Salary January", Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(3000), Category: "salary", Date: base.AddDate(0, 0, 1), IsRecurring: true},
		{Description: "Rent", Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(1200), Category: "housing", Date: base.AddDate(0, 0, 2), IsRecurring: true},
		{Description: "coffee beans", Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(18), Category: "groceries", Date: base},
	}
}

func descriptions(list []models.Transaction) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = list[i].Description
	}
	return out
}

func TestApplyTransactionView_DefaultsToNewestFirst(t *testing.T) {
	page, err := ApplyTransactionView(viewFixture(), models.TransactionQuery{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Coffee", "Rent", "Salary January", "coffee beans"}, descriptions(page.Transactions))
	assert.Equal(t, models.DefaultTransactionSort(), page.Sort)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, []int{1}, page.PageRange)
}

func TestApplyTransactionView_Filters(t *testing.T) {
	tests := []struct {
		name  string
		query models.TransactionQuery
		want  []string
	}{
		{"search is case-insensitive", models.TransactionQuery{Search: "COFFEE"}, []string{"Coffee", "coffee beans"}},
		{"search without match", models.TransactionQuery{Search: "pizza"}, []string{}},
		{"type", models.TransactionQuery{Type: "income"}, []string{"Salary January"}},
		{"recurring only", models.TransactionQuery{Recurring: models.RecurringFilterRecurring}, []string{"Rent", "Salary January"}},
		{"non-recurring only", models.TransactionQuery{Recurring: models.RecurringFilterNonRecurring}, []string{"Coffee", "coffee beans"}},
		{"combined", models.TransactionQuery{Search: "e", Type: "EXPENSE", Recurring: models.RecurringFilterRecurring}, []string{"Rent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ApplyTransactionView(viewFixture(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, descriptions(page.Transactions))
			assert.Equal(t, len(tt.want), page.TotalItems)
		})
	}
}

func TestApplyTransactionView_Sorting(t *testing.T) {
	tests := []struct {
		name string
		sort models.TransactionSort
		want []string
	}{
		{"amount asc", models.TransactionSort{Field: models.SortFieldAmount, Direction: models.SortAsc}, []string{"Coffee", "coffee beans", "Rent", "Salary January"}},
		{"amount desc", models.TransactionSort{Field: models.SortFieldAmount, Direction: models.SortDesc}, []string{"Salary January", "Rent", "coffee beans", "Coffee"}},
		{"category asc", models.TransactionSort{Field: models.SortFieldCategory, Direction: models.SortAsc}, []string{"Coffee", "coffee beans", "Rent", "Salary January"}},
		{"date asc", models.TransactionSort{Field: models.SortFieldDate, Direction: models.SortAsc}, []string{"coffee beans", "Salary January", "Rent", "Coffee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := ApplyTransactionView(viewFixture(), models.TransactionQuery{Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, descriptions(page.Transactions))
		})
	}
}

func TestApplyTransactionView_StableForEqualKeys(t *testing.T) {
	list := []models.Transaction{
		{Description: "first", Category: "food", Amount: decimal.NewFromInt(1)},
		{Description: "second", Category: "food", Amount: decimal.NewFromInt(1)},
		{Description: "third", Category: "food", Amount: decimal.NewFromInt(1)},
	}

	for _, direction := range []string{models.SortAsc, models.SortDesc} {
		page, err := ApplyTransactionView(list, models.TransactionQuery{
			Sort: models.TransactionSort{Field: models.SortFieldCategory, Direction: direction},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, descriptions(page.Transactions), direction)
	}
}

func TestApplyTransactionView_Pagination(t *testing.T) {
	list := make([]models.Transaction, 95)
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range list {
		list[i] = models.Transaction{
			Description: fmt.Sprintf("t%02d", i),
			Type:        models.TransactionTypeExpense,
			Amount:      decimal.NewFromInt(1),
			Date:        base.Add(time.Duration(i) * time.Hour),
		}
	}

	page, err := ApplyTransactionView(list, models.TransactionQuery{Page: 5})
	require.NoError(t, err)
	assert.Equal(t, 10, page.TotalPages)
	assert.Equal(t, 95, page.TotalItems)
	assert.Equal(t, 5, page.Page)
	assert.Len(t, page.Transactions, 10)
	assert.Equal(t, "t54", page.Transactions[0].Description)
	assert.Equal(t, []int{1, models.PageEllipsis, 3, 4, 5, 6, 7, models.PageEllipsis, 10}, page.PageRange)

	last, err := ApplyTransactionView(list, models.TransactionQuery{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 10, last.Page)
	assert.Len(t, last.Transactions, 5)
}

func TestApplyTransactionView_EmptyListHasOnePage(t *testing.T) {
	page, err := ApplyTransactionView(nil, models.TransactionQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.Empty(t, page.Transactions)
}

func TestApplyTransactionView_InvalidQuery(t *testing.T) {
	_, err := ApplyTransactionView(viewFixture(), models.TransactionQuery{
		Sort: models.TransactionSort{Field: "merchant"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidQuery)
}

func TestApplyTransactionView_DoesNotReorderInput(t *testing.T) {
	list := viewFixture()
	_, err := ApplyTransactionView(list, models.TransactionQuery{
		Sort: models.TransactionSort{Field: models.SortFieldAmount, Direction: models.SortAsc},
	})
	require.NoError(t, err)
	assert.Equal(t, "Coffee", list[0].Description)
	assert.Equal(t, "coffee beans", list[3].Description)
}
