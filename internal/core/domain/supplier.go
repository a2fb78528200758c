// internal/core/domain/supplier.go
package domain

import (
	"fmt"
	"time"
)

// Supplier represents a medicine supplier
type Supplier struct {
	ID            int64     `json:"supplier_id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate performs domain validation on the supplier
func (s *Supplier) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}
