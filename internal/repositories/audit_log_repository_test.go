package repositories

import (
	"testing"
	"time"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestAuditLogRepository(t *testing.T) {
	suite.Run(t, new(AuditLogRepositorySuite))
}

type AuditLogRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo AuditLogRepositoryInterface
}

func (s *AuditLogRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAuditLogRepository(s.db.DB)
}

func (s *AuditLogRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_Create() {
	userID := uuid.New()

	log := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionAccountCreated,
		Resource:   models.AuditResourceAccount,
		ResourceID: uuid.NewString(),
		IPAddress:  "192.168.1.1",
		UserAgent:  "Mozilla/5.0",
	}
	log.SetMetadata("name", "Main")

	err := s.repo.Create(log)
	s.NoError(err)
	s.NotEqual(uuid.Nil, log.ID)
	s.NotZero(log.CreatedAt)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_CreateSystemEntry() {
	log := &models.AuditLog{
		Action:     models.AuditActionTransactionRecurred,
		Resource:   models.AuditResourceTransaction,
		ResourceID: uuid.NewString(),
	}

	s.NoError(s.repo.Create(log))
	s.Nil(log.UserID)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_CreateNil() {
	s.Error(s.repo.Create(nil))
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_ListForUser() {
	userID := uuid.New()
	otherID := uuid.New()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 3; i++ {
		s.Require().NoError(s.repo.Create(&models.AuditLog{
			UserID:    &userID,
			Action:    models.AuditActionTransactionCreated,
			Resource:  models.AuditResourceTransaction,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	s.Require().NoError(s.repo.Create(&models.AuditLog{
		UserID:   &otherID,
		Action:   models.AuditActionAccountDeleted,
		Resource: models.AuditResourceAccount,
	}))

	logs, total, err := s.repo.ListForUser(userID, models.ActivityFilter{Limit: 2})
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(logs, 2)
	s.True(logs[0].CreatedAt.After(logs[1].CreatedAt))

	logs, total, err = s.repo.ListForUser(userID, models.ActivityFilter{Offset: 2, Limit: 2})
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(logs, 1)
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_ListForUser_FiltersByResource() {
	userID := uuid.New()
	accountID := uuid.NewString()

	entries := []models.AuditLog{
		{UserID: &userID, Action: models.AuditActionAccountCreated, Resource: models.AuditResourceAccount, ResourceID: accountID},
		{UserID: &userID, Action: models.AuditActionAccountDefaultChanged, Resource: models.AuditResourceAccount, ResourceID: accountID},
		{UserID: &userID, Action: models.AuditActionAccountCreated, Resource: models.AuditResourceAccount, ResourceID: uuid.NewString()},
		{UserID: &userID, Action: models.AuditActionTransactionCreated, Resource: models.AuditResourceTransaction, ResourceID: uuid.NewString()},
	}
	for i := range entries {
		s.Require().NoError(s.repo.Create(&entries[i]))
	}

	logs, total, err := s.repo.ListForUser(userID, models.ActivityFilter{Resource: models.AuditResourceAccount, Limit: 10})
	s.NoError(err)
	s.Equal(int64(3), total)
	s.Len(logs, 3)

	logs, total, err = s.repo.ListForUser(userID, models.ActivityFilter{
		Resource:   models.AuditResourceAccount,
		ResourceID: accountID,
		Limit:      10,
	})
	s.NoError(err)
	s.Equal(int64(2), total)
	for _, log := range logs {
		s.Equal(accountID, log.ResourceID)
	}
}

func (s *AuditLogRepositorySuite) TestAuditLogRepository_ListForUser_Empty() {
	logs, total, err := s.repo.ListForUser(uuid.New(), models.ActivityFilter{Limit: 10})
	s.NoError(err)
	s.Zero(total)
	s.NotNil(logs)
	s.Empty(logs)
}
