package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // HR/admin - manages attendance records and live tracking
	RoleEmployee Role = "employee" // Regular employee
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user can manage other employees' attendance.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
