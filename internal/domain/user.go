package domain

import "time"

// Role enumerates the account roles supported by the marketplace.
type Role string

const (
	RoleHomeowner       Role = "homeowner"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleHomeowner, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

// User is the root identity record. The role is immutable once the
// account exists and determines which profile row extends it.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	PhoneNumber  *string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}
