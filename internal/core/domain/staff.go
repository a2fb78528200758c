// internal/core/domain/staff.go
package domain

import (
	"fmt"
	"time"
)

// StaffRole represents a staff account role
type StaffRole string

const (
	RoleAdmin      StaffRole = "admin"
	RolePharmacist StaffRole = "pharmacist"
	RoleCashier    StaffRole = "cashier"
)

// Staff represents a staff account able to log in to the dashboard.
// PasswordHash is a bcrypt hash and is never serialized.
type Staff struct {
	ID           int64     `json:"employee_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         StaffRole `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate performs domain validation on the staff account
func (s *Staff) Validate() error {
	if s.Username == "" {
		return fmt.Errorf("username is required")
	}
	if s.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	switch s.Role {
	case RoleAdmin, RolePharmacist, RoleCashier:
	case "":
		s.Role = RoleCashier
	default:
		return fmt.Errorf("unknown role: %s", s.Role)
	}
	return nil
}
