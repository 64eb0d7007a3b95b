package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DashboardRecentTransactions = 5

// AggregateDaily buckets transactions by calendar day inside the range
// window ending today. INCOME counts as income and every other type as
// expense. Days are returned oldest first.
func AggregateDaily(list []models.Transaction, chartRange models.ChartRange, now time.Time) *models.ChartData {
	end := endOfDay(now)
	data := &models.ChartData{
		Range: chartRange,
		End:   end,
		Days:  []models.DailyTotal{},
		Totals: models.ChartTotals{
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Net:     decimal.Zero,
		},
	}

	days := chartRange.Days()
	var start time.Time
	if days > 0 {
		start = startOfDay(now.AddDate(0, 0, -days))
		data.Start = &start
	}

	buckets := make(map[string]*models.DailyTotal)
	for i := range list {
		t := &list[i]
		date := t.Date.In(now.Location())
		if date.After(end) || (days > 0 && date.Before(start)) {
			continue
		}

		key := date.Format(models.ChartDayKeyLayout)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.DailyTotal{
				Date:    key,
				Label:   date.Format(models.ChartDayLabelLayout),
				Income:  decimal.Zero,
				Expense: decimal.Zero,
			}
			buckets[key] = bucket
		}

		if t.Type == models.TransactionTypeIncome {
			bucket.Income = bucket.Income.Add(t.Amount)
			data.Totals.Income = data.Totals.Income.Add(t.Amount)
		} else {
			bucket.Expense = bucket.Expense.Add(t.Amount)
			data.Totals.Expense = data.Totals.Expense.Add(t.Amount)
		}
	}

	for _, bucket := range buckets {
		data.Days = append(data.Days, *bucket)
	}
	// YYYY-MM-DD keys sort chronologically as strings
	sort.Slice(data.Days, func(i, j int) bool {
		return data.Days[i].Date < data.Days[j].Date
	})

	data.Totals.Net = data.Totals.Income.Sub(data.Totals.Expense)
	return data
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

type chartService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	accounts        AccountServiceInterface
	now             func() time.Time
}

func NewChartService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	accounts AccountServiceInterface,
) ChartServiceInterface {
	return &chartService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		accounts:        accounts,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// GetAccountChart aggregates one owned account's history
func (s *chartService) GetAccountChart(ctx context.Context, userID, accountID uuid.UUID, chartRange models.ChartRange) (*models.ChartData, error) {
	if _, err := s.accountRepo.GetByIDForUser(userID, accountID); err != nil {
		return nil, mapAccountError(err)
	}

	transactions, err := s.transactionRepo.ListByAccount(userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return AggregateDaily(transactions, chartRange, s.now()), nil
}

// GetDashboard combines the account list, the latest transactions and a
// chart across all of the user's accounts.
func (s *chartService) GetDashboard(ctx context.Context, userID uuid.UUID, chartRange models.ChartRange) (*dto.DashboardResponse, error) {
	accounts, err := s.accounts.GetUserAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := &dto.DashboardResponse{Accounts: accounts}
	for i := range accounts {
		if accounts[i].IsDefault {
			id := accounts[i].ID
			response.DefaultAccountID = &id
			break
		}
	}

	recent, err := s.transactionRepo.ListRecentByUser(userID, DashboardRecentTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	if recent == nil {
		recent = []models.Transaction{}
	}
	response.RecentTransactions = recent

	now := s.now()
	var since *time.Time
	if days := chartRange.Days(); days > 0 {
		start := startOfDay(now.AddDate(0, 0, -days))
		since = &start
	}

	windowed, err := s.transactionRepo.ListForUserSince(userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list chart transactions: %w", err)
	}
	response.Chart = AggregateDaily(windowed, chartRange, now)

	return response, nil
}
