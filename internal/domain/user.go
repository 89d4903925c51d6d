package domain

import "time"

// UserRole gates which mutations an account may perform.
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleTechnician UserRole = "technician"
	RoleAdmin      UserRole = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// User is any account in the system: end-users filing tickets, technicians
// triaging them, and administrators configuring the service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Department   string
	Position     string
	Phone        string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
