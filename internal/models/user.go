package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles. Developer covers internal tooling and implies admin rights.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
)

// User is an account holder. Accounts are only ever soft-deleted.
type User struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Username     string          `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Name         string          `gorm:"size:100" json:"name"`
	PasswordHash string          `gorm:"size:255;not null" json:"-"`
	Email        *string         `gorm:"size:255;uniqueIndex" json:"email"`
	Role         string          `gorm:"size:20;not null;default:'user';index" json:"role"`
	Gender       *int            `json:"gender"`
	BirthDate    *datatypes.Date `json:"birth_date"`
	LastLogin    *time.Time      `json:"last_login"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsStaff reports whether the user may edit shared catalog content.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleDeveloper
}
