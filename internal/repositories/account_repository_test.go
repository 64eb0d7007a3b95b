package repositories

import (
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// AccountRepositorySuite defines the test suite for AccountRepository
type AccountRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     AccountRepositoryInterface
	testUser *models.User
}

// SetupTest runs before each test in the suite
func (s *AccountRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAccountRepository(s.db.DB)
	s.testUser = database.CreateTestUser(s.T(), s.db, "user_accounts")
}

// TearDownTest runs after each test in the suite
func (s *AccountRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

// TestAccountRepositorySuite runs the test suite
func TestAccountRepositorySuite(t *testing.T) {
	suite.Run(t, new(AccountRepositorySuite))
}

func (s *AccountRepositorySuite) newAccount(name string, isDefault bool) *models.Account {
	account := &models.Account{
		UserID:    s.testUser.ID,
		Name:      name,
		Type:      models.AccountTypeCurrent,
		Balance:   decimal.NewFromInt(100),
		IsDefault: isDefault,
	}
	s.Require().NoError(s.repo.CreateForUser(account))
	return account
}

func (s *AccountRepositorySuite) defaultIDs() []uuid.UUID {
	var ids []uuid.UUID
	s.Require().NoError(s.db.DB.Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", s.testUser.ID, true).
		Pluck("id", &ids).Error)
	return ids
}

func (s *AccountRepositorySuite) TestCreateForUser_FirstAccountBecomesDefault() {
	account := s.newAccount("Main", false)

	s.NotEqual(uuid.Nil, account.ID)
	s.True(account.IsDefault)
	s.Equal([]uuid.UUID{account.ID}, s.defaultIDs())
}

func (s *AccountRepositorySuite) TestCreateForUser_NewDefaultTakesOverFlag() {
	s.newAccount("Main", false)
	savings := s.newAccount("Savings", true)

	s.Equal([]uuid.UUID{savings.ID}, s.defaultIDs())
}

func (s *AccountRepositorySuite) TestCreateForUser_NonDefaultKeepsExistingDefault() {
	main := s.newAccount("Main", false)
	s.newAccount("Holiday", false)

	s.Equal([]uuid.UUID{main.ID}, s.defaultIDs())
}

func (s *AccountRepositorySuite) TestCreateForUser_InvalidType() {
	err := s.repo.CreateForUser(&models.Account{UserID: s.testUser.ID, Name: "Main", Type: "CHECKING"})
	s.ErrorIs(err, models.ErrInvalidAccountType)
}

func (s *AccountRepositorySuite) TestGetByIDForUser_ForeignAccountIsNotFound() {
	account := s.newAccount("Main", false)
	other := database.CreateTestUser(s.T(), s.db, "user_other")

	_, err := s.repo.GetByIDForUser(other.ID, account.ID)
	s.ErrorIs(err, ErrAccountNotFound)

	found, err := s.repo.GetByIDForUser(s.testUser.ID, account.ID)
	s.NoError(err)
	s.True(found.Balance.Equal(decimal.NewFromInt(100)))
}

func (s *AccountRepositorySuite) TestListByUser_DefaultFirst() {
	s.newAccount("Main", false)
	savings := s.newAccount("Savings", true)
	s.newAccount("Holiday", false)

	accounts, err := s.repo.ListByUser(s.testUser.ID)
	s.NoError(err)
	s.Len(accounts, 3)
	s.Equal(savings.ID, accounts[0].ID)

	count, err := s.repo.CountByUser(s.testUser.ID)
	s.NoError(err)
	s.Equal(int64(3), count)
}

func (s *AccountRepositorySuite) TestGetDefaultForUser() {
	_, err := s.repo.GetDefaultForUser(s.testUser.ID)
	s.ErrorIs(err, ErrNoDefaultAccount)

	main := s.newAccount("Main", false)
	account, err := s.repo.GetDefaultForUser(s.testUser.ID)
	s.NoError(err)
	s.Equal(main.ID, account.ID)
}

func (s *AccountRepositorySuite) TestUpdateName() {
	account := s.newAccount("Main", false)

	updated, err := s.repo.UpdateName(s.testUser.ID, account.ID, "  Everyday  ")
	s.NoError(err)
	s.Equal("Everyday", updated.Name)

	stored, err := s.repo.GetByIDForUser(s.testUser.ID, account.ID)
	s.NoError(err)
	s.Equal("Everyday", stored.Name)
}

func (s *AccountRepositorySuite) TestUpdateName_Blank() {
	account := s.newAccount("Main", false)

	_, err := s.repo.UpdateName(s.testUser.ID, account.ID, "   ")
	s.ErrorIs(err, models.ErrInvalidAccountName)
}

func (s *AccountRepositorySuite) TestSetDefault_ExactlyOneDefault() {
	s.newAccount("Main", false)
	savings := s.newAccount("Savings", false)
	s.newAccount("Holiday", false)

	account, err := s.repo.SetDefault(s.testUser.ID, savings.ID)
	s.NoError(err)
	s.True(account.IsDefault)
	s.Equal([]uuid.UUID{savings.ID}, s.defaultIDs())

	// Setting the current default again is a no-op
	_, err = s.repo.SetDefault(s.testUser.ID, savings.ID)
	s.NoError(err)
	s.Equal([]uuid.UUID{savings.ID}, s.defaultIDs())
}

func (s *AccountRepositorySuite) TestSetDefault_ForeignAccountChangesNothing() {
	main := s.newAccount("Main", false)
	other := database.CreateTestUser(s.T(), s.db, "user_other")
	foreign := database.CreateTestAccount(s.T(), s.db, other.ID, "Theirs", decimal.Zero, true)

	_, err := s.repo.SetDefault(s.testUser.ID, foreign.ID)
	s.ErrorIs(err, ErrAccountNotFound)
	s.Equal([]uuid.UUID{main.ID}, s.defaultIDs())

	_, err = s.repo.SetDefault(s.testUser.ID, uuid.New())
	s.ErrorIs(err, ErrAccountNotFound)
	s.Equal([]uuid.UUID{main.ID}, s.defaultIDs())
}

func (s *AccountRepositorySuite) TestDeleteForUser_DefaultWithOthersRejected() {
	main := s.newAccount("Main", false)
	s.newAccount("Savings", false)

	err := s.repo.DeleteForUser(s.testUser.ID, main.ID)
	s.ErrorIs(err, ErrDefaultAccountDeletion)

	_, err = s.repo.GetByIDForUser(s.testUser.ID, main.ID)
	s.NoError(err)
}

func (s *AccountRepositorySuite) TestDeleteForUser_RemovesTransactions() {
	s.newAccount("Main", false)
	savings := s.newAccount("Savings", false)
	s.Require().NoError(s.db.DB.Create(&models.Transaction{
		UserID:    s.testUser.ID,
		AccountID: savings.ID,
		Type:      models.TransactionTypeIncome,
		Amount:    decimal.NewFromInt(10),
		Category:  "salary",
	}).Error)

	s.NoError(s.repo.DeleteForUser(s.testUser.ID, savings.ID))

	_, err := s.repo.GetByIDForUser(s.testUser.ID, savings.ID)
	s.ErrorIs(err, ErrAccountNotFound)

	var remaining int64
	s.NoError(s.db.DB.Model(&models.Transaction{}).Where("account_id = ?", savings.ID).Count(&remaining).Error)
	s.Zero(remaining)
}

func (s *AccountRepositorySuite) TestDeleteForUser_LastDefaultAllowed() {
	main := s.newAccount("Main", false)

	s.NoError(s.repo.DeleteForUser(s.testUser.ID, main.ID))
}

func (s *AccountRepositorySuite) TestDeleteForUser_ForeignAccount() {
	other := database.CreateTestUser(s.T(), s.db, "user_other")
	foreign := database.CreateTestAccount(s.T(), s.db, other.ID, "Theirs", decimal.Zero, false)

	err := s.repo.DeleteForUser(s.testUser.ID, foreign.ID)
	s.ErrorIs(err, ErrAccountNotFound)
}
