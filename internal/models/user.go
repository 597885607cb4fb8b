// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole is the explicit role claim assigned at account creation.
type UserRole string

const (
	// RoleAdmin grants access to settings, generation and moderation endpoints.
	RoleAdmin UserRole = "admin"
	// RoleUser is the default role for signed-up accounts.
	RoleUser UserRole = "user"
)

// User represents an account on the platform. The role column is the single
// source of authorization truth; it is checked server-side on every
// admin-gated request.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	DisplayName string         `gorm:"size:120" json:"display_name"`
	Role        UserRole       `gorm:"type:varchar(10);not null;default:'user'" json:"role"`
	Active      bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
