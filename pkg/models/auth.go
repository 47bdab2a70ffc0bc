package models

import (
	"time"

	"github.com/regelwerk/backend/pkg/constants"
)

// User is an account that may log in and edit form definitions
type User struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Name         string             `json:"name"`
	Role         constants.UserRole `json:"role"`
	PasswordHash string             `json:"-"`
	CreatedAt    time.Time          `json:"created_at"`
}

// UserSession is the authenticated identity carried in the JWT
type UserSession struct {
	ID    string             `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  constants.UserRole `json:"role"`
}

// IsAdmin reports whether the session may perform destructive operations
func (u UserSession) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
