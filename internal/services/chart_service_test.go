package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chartNow = time.Date(2025, time.March, 31, 15, 30, 0, 0, time.UTC)

func chartTx(txType string, amount int64, date time.Time) models.Transaction {
	return models.Transaction{Type: txType, Amount: decimal.NewFromInt(amount), Date: date}
}

func TestAggregateDaily_BucketsByDay(t *testing.T) {
	list := []models.Transaction{
		chartTx(models.TransactionTypeIncome, 100, chartNow.Add(-2*time.Hour)),
		chartTx(models.TransactionTypeExpense, 30, chartNow.Add(-3*time.Hour)),
		chartTx(models.TransactionTypeExpense, 20, chartNow.AddDate(0, 0, -2)),
		chartTx(models.TransactionTypeExpense, 5, chartNow.AddDate(0, 0, -2).Add(time.Hour)),
	}

	data := AggregateDaily(list, models.ChartRange7D, chartNow)

	require.Len(t, data.Days, 2)
	assert.Equal(t, "2025-03-29", data.Days[0].Date)
	assert.Equal(t, "Mar 29", data.Days[0].Label)
	assert.True(t, data.Days[0].Expense.Equal(decimal.NewFromInt(25)))
	assert.True(t, data.Days[0].Income.IsZero())
	assert.Equal(t, "2025-03-31", data.Days[1].Date)
	assert.True(t, data.Days[1].Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, data.Days[1].Expense.Equal(decimal.NewFromInt(30)))

	assert.True(t, data.Totals.Income.Equal(decimal.NewFromInt(100)))
	assert.True(t, data.Totals.Expense.Equal(decimal.NewFromInt(55)))
	assert.True(t, data.Totals.Net.Equal(decimal.NewFromInt(45)))
}

func TestAggregateDaily_WindowBoundaries(t *testing.T) {
	start := time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC)
	list := []models.Transaction{
		chartTx(models.TransactionTypeExpense, 1, start),
		chartTx(models.TransactionTypeExpense, 2, start.Add(-time.Nanosecond)),
		chartTx(models.TransactionTypeExpense, 4, time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)),
		chartTx(models.TransactionTypeExpense, 8, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}

	data := AggregateDaily(list, models.ChartRange7D, chartNow)

	require.NotNil(t, data.Start)
	assert.Equal(t, start, *data.Start)
	assert.True(t, data.Totals.Expense.Equal(decimal.NewFromInt(5)))
}

func TestAggregateDaily_AllRangeHasNoLowerBound(t *testing.T) {
	list := []models.Transaction{
		chartTx(models.TransactionTypeIncome, 10, chartNow.AddDate(-3, 0, 0)),
		chartTx(models.TransactionTypeIncome, 7, endOfDay(chartNow)),
		chartTx(models.TransactionTypeIncome, 10, chartNow.AddDate(0, 0, 5)),
	}

	data := AggregateDaily(list, models.ChartRangeAll, chartNow)

	assert.Nil(t, data.Start)
	require.Len(t, data.Days, 2)
	assert.Equal(t, "2022-03-31", data.Days[0].Date)
	assert.Equal(t, "2025-03-31", data.Days[1].Date)
	assert.True(t, data.Totals.Income.Equal(decimal.NewFromInt(17)))
}

func TestChartService_NowIsUTC(t *testing.T) {
	service := NewChartService(nil, nil, nil).(*chartService)
	assert.Equal(t, time.UTC, service.now().Location())

	// plain dates are stored at UTC midnight and must keep their own day
	list := []models.Transaction{
		chartTx(models.TransactionTypeExpense, 4, time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)),
	}
	data := AggregateDaily(list, models.ChartRange7D, chartNow)
	require.Len(t, data.Days, 1)
	assert.Equal(t, "2025-03-30", data.Days[0].Date)
}

func TestAggregateDaily_EmptyInput(t *testing.T) {
	data := AggregateDaily(nil, models.ChartRange1M, chartNow)

	assert.NotNil(t, data.Days)
	assert.Empty(t, data.Days)
	assert.True(t, data.Totals.Net.IsZero())
	assert.Equal(t, models.ChartRange1M, data.Range)
}

func TestChartService_GetDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := repository_mocks.NewMockAccountRepositoryInterface(ctrl)
	transactionRepo := repository_mocks.NewMockTransactionRepositoryInterface(ctrl)
	audit := service_mocks.NewMockAuditServiceInterface(ctrl)
	auditLogger := service_mocks.NewMockAuditLoggerInterface(ctrl)
	metrics := service_mocks.NewMockMetricsRecorderInterface(ctrl)

	accounts := NewAccountService(accountRepo, transactionRepo, audit, auditLogger, metrics, slog.Default())
	svc := NewChartService(accountRepo, transactionRepo, accounts).(*chartService)
	svc.now = func() time.Time { return chartNow }

	userID := uuid.New()
	defaultID := uuid.New()
	since := time.Date(2025, time.March, 24, 0, 0, 0, 0, time.UTC)

	accountRepo.EXPECT().ListByUser(userID).Return([]models.Account{
		{ID: defaultID, Name: "Main", IsDefault: true},
		{ID: uuid.New(), Name: "Cash"},
	}, nil)
	transactionRepo.EXPECT().CountByAccounts(gomock.Any()).Return(map[uuid.UUID]int64{}, nil)
	transactionRepo.EXPECT().ListRecentByUser(userID, DashboardRecentTransactions).Return(nil, nil)
	transactionRepo.EXPECT().ListForUserSince(userID, &since).Return([]models.Transaction{
		chartTx(models.TransactionTypeIncome, 50, chartNow),
	}, nil)

	dashboard, err := svc.GetDashboard(context.Background(), userID, models.ChartRange7D)
	require.NoError(t, err)
	assert.Len(t, dashboard.Accounts, 2)
	require.NotNil(t, dashboard.DefaultAccountID)
	assert.Equal(t, defaultID, *dashboard.DefaultAccountID)
	assert.NotNil(t, dashboard.RecentTransactions)
	assert.True(t, dashboard.Chart.Totals.Income.Equal(decimal.NewFromInt(50)))
}

func TestChartService_GetAccountChart_NotOwned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountRepo := repository_mocks.NewMockAccountRepositoryInterface(ctrl)
	transactionRepo := repository_mocks.NewMockTransactionRepositoryInterface(ctrl)
	svc := NewChartService(accountRepo, transactionRepo, nil)

	userID, accountID := uuid.New(), uuid.New()
	accountRepo.EXPECT().GetByIDForUser(userID, accountID).Return(nil, repositories.ErrAccountNotFound)

	_, err := svc.GetAccountChart(context.Background(), userID, accountID, models.ChartRange1M)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
