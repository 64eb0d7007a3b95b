package repositories

import (
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionRepositorySuite struct {
	suite.Suite
	db      *database.DB
	repo    TransactionRepositoryInterface
	user    *models.User
	main    *models.Account
	savings *models.Account
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "user_transactions")
	s.main = database.CreateTestAccount(s.T(), s.db, s.user.ID, "Main", decimal.NewFromInt(100), true)
	s.savings = database.CreateTestAccount(s.T(), s.db, s.user.ID, "Savings", decimal.NewFromInt(50), false)
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *TransactionRepositorySuite) balance(accountID uuid.UUID) decimal.Decimal {
	var account models.Account
	s.Require().NoError(s.db.DB.First(&account, "id = ?", accountID).Error)
	return account.Balance
}

func (s *TransactionRepositorySuite) create(accountID uuid.UUID, txType, amount string) *models.Transaction {
	txn := &models.Transaction{
		UserID:    s.user.ID,
		AccountID: accountID,
		Type:      txType,
		Amount:    decimal.RequireFromString(amount),
		Category:  "groceries",
		Date:      time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.repo.CreateWithBalance(txn))
	return txn
}

func (s *TransactionRepositorySuite) TestCreateWithBalance() {
	s.create(s.main.ID, models.TransactionTypeExpense, "30.25")
	s.create(s.main.ID, models.TransactionTypeIncome, "10")

	s.True(s.balance(s.main.ID).Equal(decimal.RequireFromString("79.75")), s.balance(s.main.ID).String())
}

func (s *TransactionRepositorySuite) TestCreateWithBalance_ForeignAccount() {
	other := database.CreateTestUser(s.T(), s.db, "user_other")
	foreign := database.CreateTestAccount(s.T(), s.db, other.ID, "Theirs", decimal.NewFromInt(5), true)

	err := s.repo.CreateWithBalance(&models.Transaction{
		UserID:    s.user.ID,
		AccountID: foreign.ID,
		Type:      models.TransactionTypeIncome,
		Amount:    decimal.NewFromInt(10),
		Category:  "salary",
	})

	s.ErrorIs(err, ErrAccountNotFound)
	s.True(s.balance(foreign.ID).Equal(decimal.NewFromInt(5)))
}

func (s *TransactionRepositorySuite) TestCreateWithBalance_InvalidRollsBack() {
	err := s.repo.CreateWithBalance(&models.Transaction{
		UserID:    s.user.ID,
		AccountID: s.main.ID,
		Type:      models.TransactionTypeIncome,
		Amount:    decimal.Zero,
		Category:  "salary",
	})

	s.ErrorIs(err, models.ErrInvalidAmount)
	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(100)))
}

func (s *TransactionRepositorySuite) TestCreateBatchWithBalance() {
	batch := []models.Transaction{
		{Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(40), Category: "salary"},
		{Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(15), Category: "food"},
	}

	s.NoError(s.repo.CreateBatchWithBalance(s.user.ID, s.savings.ID, batch))

	s.True(s.balance(s.savings.ID).Equal(decimal.NewFromInt(75)))
	listed, err := s.repo.ListByAccount(s.user.ID, s.savings.ID)
	s.NoError(err)
	s.Len(listed, 2)
}

func (s *TransactionRepositorySuite) TestUpdateWithBalance_SameAccount() {
	txn := s.create(s.main.ID, models.TransactionTypeExpense, "20")

	changed := *txn
	changed.Type = models.TransactionTypeIncome
	changed.Amount = decimal.NewFromInt(5)
	changed.Description = "refund"

	updated, err := s.repo.UpdateWithBalance(s.user.ID, &changed)
	s.NoError(err)
	s.Equal("refund", updated.Description)
	s.Equal(models.TransactionTypeIncome, updated.Type)
	// 100 - 20 -> reverse (+20) -> +5
	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(105)))
}

func (s *TransactionRepositorySuite) TestUpdateWithBalance_MovesAccount() {
	txn := s.create(s.main.ID, models.TransactionTypeExpense, "20")

	changed := *txn
	changed.AccountID = s.savings.ID

	_, err := s.repo.UpdateWithBalance(s.user.ID, &changed)
	s.NoError(err)
	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(100)))
	s.True(s.balance(s.savings.ID).Equal(decimal.NewFromInt(30)))
}

func (s *TransactionRepositorySuite) TestUpdateWithBalance_NotOwned() {
	txn := s.create(s.main.ID, models.TransactionTypeExpense, "20")
	other := database.CreateTestUser(s.T(), s.db, "user_other")

	changed := *txn
	_, err := s.repo.UpdateWithBalance(other.ID, &changed)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestUpdateWithBalance_ForeignTargetAccountRollsBack() {
	txn := s.create(s.main.ID, models.TransactionTypeExpense, "20")
	other := database.CreateTestUser(s.T(), s.db, "user_other")
	foreign := database.CreateTestAccount(s.T(), s.db, other.ID, "Theirs", decimal.Zero, true)

	changed := *txn
	changed.AccountID = foreign.ID

	_, err := s.repo.UpdateWithBalance(s.user.ID, &changed)
	s.ErrorIs(err, ErrAccountNotFound)
	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(80)))
	s.True(s.balance(foreign.ID).IsZero())
}

func (s *TransactionRepositorySuite) TestBulkDeleteForUser_ReconcilesBalances() {
	a := s.create(s.main.ID, models.TransactionTypeExpense, "30")
	b := s.create(s.main.ID, models.TransactionTypeIncome, "10")
	c := s.create(s.savings.ID, models.TransactionTypeExpense, "5.50")
	keep := s.create(s.savings.ID, models.TransactionTypeIncome, "1")

	result, err := s.repo.BulkDeleteForUser(s.user.ID, []uuid.UUID{a.ID, b.ID, c.ID})
	s.NoError(err)
	s.Equal(3, result.DeletedCount)
	s.True(result.BalanceChanges[s.main.ID].Equal(decimal.NewFromInt(20)))
	s.True(result.BalanceChanges[s.savings.ID].Equal(decimal.RequireFromString("5.5")))

	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(100)))
	s.True(s.balance(s.savings.ID).Equal(decimal.NewFromInt(51)))

	_, err = s.repo.GetByIDForUser(s.user.ID, keep.ID)
	s.NoError(err)
}

func (s *TransactionRepositorySuite) TestBulkDeleteForUser_SkipsForeignIDs() {
	mine := s.create(s.main.ID, models.TransactionTypeExpense, "30")
	other := database.CreateTestUser(s.T(), s.db, "user_other")
	foreignAccount := database.CreateTestAccount(s.T(), s.db, other.ID, "Theirs", decimal.Zero, true)
	foreign := &models.Transaction{
		UserID:    other.ID,
		AccountID: foreignAccount.ID,
		Type:      models.TransactionTypeExpense,
		Amount:    decimal.NewFromInt(7),
		Category:  "food",
	}
	s.Require().NoError(s.repo.CreateWithBalance(foreign))

	result, err := s.repo.BulkDeleteForUser(s.user.ID, []uuid.UUID{mine.ID, foreign.ID})
	s.NoError(err)
	s.Equal(1, result.DeletedCount)
	s.NotContains(result.BalanceChanges, foreignAccount.ID)

	_, err = s.repo.GetByIDForUser(other.ID, foreign.ID)
	s.NoError(err)
	s.True(s.balance(foreignAccount.ID).Equal(decimal.NewFromInt(-7)))
}

func (s *TransactionRepositorySuite) TestBulkDeleteForUser_Empty() {
	result, err := s.repo.BulkDeleteForUser(s.user.ID, nil)
	s.NoError(err)
	s.Zero(result.DeletedCount)
	s.Empty(result.BalanceChanges)
}

func (s *TransactionRepositorySuite) TestCountByAccounts() {
	s.create(s.main.ID, models.TransactionTypeExpense, "1")
	s.create(s.main.ID, models.TransactionTypeExpense, "2")
	s.create(s.savings.ID, models.TransactionTypeExpense, "3")

	counts, err := s.repo.CountByAccounts([]uuid.UUID{s.main.ID, s.savings.ID, uuid.New()})
	s.NoError(err)
	s.Equal(int64(2), counts[s.main.ID])
	s.Equal(int64(1), counts[s.savings.ID])
	s.Len(counts, 2)
}

func (s *TransactionRepositorySuite) TestListRecentAndSince() {
	old := s.create(s.main.ID, models.TransactionTypeExpense, "1")
	s.Require().NoError(s.db.DB.Model(old).Update("date", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)).Error)
	s.create(s.main.ID, models.TransactionTypeExpense, "2")

	recent, err := s.repo.ListRecentByUser(s.user.ID, 1)
	s.NoError(err)
	s.Len(recent, 1)
	s.NotEqual(old.ID, recent[0].ID)

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	listed, err := s.repo.ListForUserSince(s.user.ID, &since)
	s.NoError(err)
	s.Len(listed, 1)

	all, err := s.repo.ListForUserSince(s.user.ID, nil)
	s.NoError(err)
	s.Len(all, 2)
	s.Equal(old.ID, all[0].ID)
}

func (s *TransactionRepositorySuite) TestProcessRecurring() {
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	template := &models.Transaction{
		UserID:            s.user.ID,
		AccountID:         s.main.ID,
		Type:              models.TransactionTypeExpense,
		Amount:            decimal.NewFromInt(12),
		Description:       "Gym",
		Category:          "health",
		Date:              start,
		IsRecurring:       true,
		RecurringInterval: models.RecurringIntervalMonthly,
	}
	s.Require().NoError(s.repo.CreateWithBalance(template))
	s.Require().NotNil(template.NextRecurringDate)

	now := time.Date(2024, 2, 16, 0, 0, 0, 0, time.UTC)
	due, err := s.repo.ListDueRecurring(now, 10)
	s.NoError(err)
	s.Require().Len(due, 1)
	s.Equal(template.ID, due[0].ID)

	occurrence, err := s.repo.ProcessRecurring(template.ID, now)
	s.NoError(err)
	s.Equal("Gym"+models.RecurringDescriptionSuffix, occurrence.Description)
	s.False(occurrence.IsRecurring)
	s.True(s.balance(s.main.ID).Equal(decimal.NewFromInt(76)))

	stored, err := s.repo.GetByIDForUser(s.user.ID, template.ID)
	s.NoError(err)
	s.Require().NotNil(stored.NextRecurringDate)
	s.True(stored.NextRecurringDate.Equal(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)))
	s.Require().NotNil(stored.LastProcessed)

	_, err = s.repo.ProcessRecurring(template.ID, now)
	s.ErrorIs(err, ErrRecurringNotDue)

	due, err = s.repo.ListDueRecurring(now, 10)
	s.NoError(err)
	s.Empty(due)
}

func (s *TransactionRepositorySuite) TestProcessRecurring_Unknown() {
	_, err := s.repo.ProcessRecurring(uuid.New(), time.Now())
	s.ErrorIs(err, ErrTransactionNotFound)
}
