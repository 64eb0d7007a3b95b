package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	ErrExternalIDRequired = errors.New("external id is required")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// User is the local record for an identity managed by the hosted auth provider.
type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ExternalID string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"external_id"`
	Email      string    `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Name       string    `gorm:"type:varchar(255)" json:"name,omitempty"`
	ImageURL   string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`

	Accounts     []Account     `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if strings.TrimSpace(u.ExternalID) == "" {
		return ErrExternalIDRequired
	}

	// the identity provider may withhold the address
	if u.Email != "" && !emailRegex.MatchString(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// DisplayName falls back to the email address when no name was shared.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) TableName() string {
	return "users"
}
