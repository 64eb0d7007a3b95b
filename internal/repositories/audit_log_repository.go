package repositories

import (
	"errors"
	"fmt"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository stores the trail of changes users make to their
// accounts and transactions.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepositoryInterface {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(log *models.AuditLog) error {
	if log == nil {
		return errors.New("audit log cannot be nil")
	}

	if err := r.db.Create(log).Error; err != nil {
		return fmt.Errorf("failed to record %s on %s: %w", log.Action, log.Resource, err)
	}
	return nil
}

// ListForUser returns one page of the user's trail, newest first, together
// with the number of entries matching the filter. Entries written by the
// recurring worker carry no user and never show up here.
func (r *AuditLogRepository) ListForUser(userID uuid.UUID, filter models.ActivityFilter) ([]*models.AuditLog, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Model(&models.AuditLog{}).Where("user_id = ?", userID)
		if filter.Resource != "" {
			db = db.Where("resource = ?", filter.Resource)
		}
		if filter.ResourceID != "" {
			db = db.Where("resource_id = ?", filter.ResourceID)
		}
		return db
	}

	var total int64
	if err := r.db.Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity: %w", err)
	}

	logs := make([]*models.AuditLog, 0, filter.Limit)
	if total == 0 {
		return logs, 0, nil
	}

	err := r.db.Scopes(scope).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activity: %w", err)
	}
	return logs, total, nil
}
