package domain

import "time"

// Role is a user's access tag; live subscriptions are keyed by it too.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleStaff      Role = "staff"
)

// IsValid checks if the role is known.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleStaff:
		return true
	}
	return false
}

// User is a dashboard account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
