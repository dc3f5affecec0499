package types

import "time"

// Role is the closed set of authorization levels an account can hold.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"

	// RoleAdmin grants access to management endpoints.
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a raw string onto a known Role. Unknown values report ok=false.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// User represents an account in the system.
// It contains identity, role, credential state, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Email is the user's email address, stored lowercased and unique.
	Email string `json:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Role indicates the user's authorization level.
	Role Role `json:"role" db:"role"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// FailedLoginAttempts counts consecutive failed logins since the last
	// successful one. Never negative.
	FailedLoginAttempts int `json:"-" db:"failed_login_attempts"`

	// LockedUntil, when set, rejects login attempts until it passes.
	LockedUntil *time.Time `json:"-" db:"locked_until"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
