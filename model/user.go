package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity account. Its ID is the subject claim carried in access tokens.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string    `json:"name" gorm:"type:varchar(255)"`
	Email          string    `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	Password       string    `json:"-" gorm:"type:varchar(255);not null"`
	PasswordSalt   string    `json:"-" gorm:"type:varchar(64)"`
	FailedAttempts int       `json:"-" gorm:"default:0"`
	LockedUntil    *int64    `json:"-"`
	Roles          []Role    `json:"roles" gorm:"many2many:user_roles;"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random UUID when the caller did not set one.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RoleNames returns the names of the roles attached to the user.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
