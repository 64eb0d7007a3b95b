package repositories

import (
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) TestEnsureUser_CreatesOnFirstSight() {
	user, err := s.repo.EnsureUser(&models.User{
		ExternalID: "user_2abc",
		Email:      "jo@example.com",
		Name:       "Jo",
	})

	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.Equal("jo@example.com", user.Email)

	stored, err := s.repo.GetByExternalID("user_2abc")
	s.NoError(err)
	s.Equal(user.ID, stored.ID)
}

func (s *UserRepositorySuite) TestEnsureUser_ReturnsExistingAndRefreshesProfile() {
	first, err := s.repo.EnsureUser(&models.User{ExternalID: "user_2abc", Name: "Jo"})
	s.Require().NoError(err)

	second, err := s.repo.EnsureUser(&models.User{ExternalID: "user_2abc", Email: "jo@example.com"})
	s.NoError(err)
	s.Equal(first.ID, second.ID)
	s.Equal("Jo", second.Name)
	s.Equal("jo@example.com", second.Email)

	stored, err := s.repo.GetByID(first.ID)
	s.NoError(err)
	s.Equal("jo@example.com", stored.Email)
	s.Equal("Jo", stored.Name)

	var count int64
	s.NoError(s.db.DB.Model(&models.User{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *UserRepositorySuite) TestEnsureUser_RequiresExternalID() {
	_, err := s.repo.EnsureUser(&models.User{Email: "jo@example.com"})
	s.ErrorIs(err, models.ErrExternalIDRequired)

	_, err = s.repo.EnsureUser(nil)
	s.ErrorIs(err, models.ErrExternalIDRequired)
}

func (s *UserRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetByExternalID_NotFound() {
	_, err := s.repo.GetByExternalID("user_missing")
	s.ErrorIs(err, ErrUserNotFound)
}
