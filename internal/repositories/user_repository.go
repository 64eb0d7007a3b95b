package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{
		db: db,
	}
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{ID: id}
	if err := r.db.First(user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByExternalID retrieves a user by the identity provider's subject
func (r *UserRepository) GetByExternalID(externalID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("external_id = ?", externalID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by external ID: %w", err)
	}

	return &user, nil
}

// EnsureUser returns the local user for profile.ExternalID, creating it on
// first sight. Profile fields present on the session overwrite stored ones.
func (r *UserRepository) EnsureUser(profile *models.User) (*models.User, error) {
	if profile == nil || strings.TrimSpace(profile.ExternalID) == "" {
		return nil, models.ErrExternalIDRequired
	}

	user, err := r.GetByExternalID(profile.ExternalID)
	switch {
	case errors.Is(err, ErrUserNotFound):
		created := &models.User{
			ExternalID: profile.ExternalID,
			Email:      profile.Email,
			Name:       profile.Name,
			ImageURL:   profile.ImageURL,
		}
		if err := r.db.Create(created).Error; err != nil {
			// Two first requests for the same user can race the insert.
			if isDuplicateKeyError(err) {
				return r.GetByExternalID(profile.ExternalID)
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return created, nil
	case err != nil:
		return nil, err
	}

	fields := profileChanges(user, profile)
	if len(fields) == 0 {
		return user, nil
	}

	fields["updated_at"] = time.Now()
	if err := r.db.Model(user).Updates(fields).Error; err != nil {
		return nil, fmt.Errorf("failed to refresh user profile: %w", err)
	}

	if profile.Email != "" {
		user.Email = profile.Email
	}
	if profile.Name != "" {
		user.Name = profile.Name
	}
	if profile.ImageURL != "" {
		user.ImageURL = profile.ImageURL
	}

	return user, nil
}

func profileChanges(stored, profile *models.User) map[string]interface{} {
	fields := make(map[string]interface{})
	if profile.Email != "" && profile.Email != stored.Email {
		fields["email"] = profile.Email
	}
	if profile.Name != "" && profile.Name != stored.Name {
		fields["name"] = profile.Name
	}
	if profile.ImageURL != "" && profile.ImageURL != stored.ImageURL {
		fields["image_url"] = profile.ImageURL
	}
	return fields
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errStr := err.Error()
	// Postgres duplicate key error detection
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}
