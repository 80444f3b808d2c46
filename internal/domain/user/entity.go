package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system (matches user_role enum)
type Role string

const (
	RoleGuest  Role = "guest"
	RoleVendor Role = "vendor"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// User represents a user account (matches users table)
type User struct {
	ID            uuid.UUID      `db:"id"`
	Email         string         `db:"email"`
	PasswordHash  string         `db:"password_hash"`
	FullName      string         `db:"full_name"`
	Phone         sql.NullString `db:"phone"`
	Role          Role           `db:"role"`
	EmailVerified bool           `db:"email_verified"`
	IsBanned      bool           `db:"is_banned"`

	// Firebase-linked accounts carry the external UID and no usable password
	FirebaseUID sql.NullString `db:"firebase_uid"`

	// Login tracking
	LastLoginAt sql.NullTime   `db:"last_login_at"`
	LastLoginIP sql.NullString `db:"last_login_ip"`

	// Timestamps
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsGuest returns true if user is a guest (consumer)
func (u *User) IsGuest() bool {
	return u.Role == RoleGuest
}

// IsVendor returns true if user is a vendor
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator returns true if user can moderate listings
func (u *User) IsModerator() bool {
	return u.Role == RoleAdmin || u.Role == RoleStaff
}

// IsActive returns true if user is not banned
func (u *User) IsActive() bool {
	return !u.IsBanned
}

// CanBook returns true if user can create bookings
func (u *User) CanBook() bool {
	return u.IsGuest()
}

// CanManageListings returns true if user can create and edit listings
func (u *User) CanManageListings() bool {
	return u.IsVendor() || u.IsAdmin()
}

// ValidRoles returns list of valid roles for registration
func ValidRoles() []Role {
	return []Role{RoleGuest, RoleVendor}
}

// IsValidRole checks if role is valid for registration
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}
