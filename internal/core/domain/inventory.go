// internal/core/domain/inventory.go
package domain

import (
	"fmt"
	"time"
)

// InventoryRecord holds the on-hand quantity for one medicine. The
// quantity column must never go negative: the order workflow only mutates
// it through a conditional decrement guarded by `quantity >= requested`.
type InventoryRecord struct {
	MedicineID   int64      `json:"medicine_id"`
	Quantity     int        `json:"quantity"`
	ReorderLevel int        `json:"reorder_level"`
	BatchNumber  string     `json:"batch_number,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Validate performs domain validation on the inventory record
func (r *InventoryRecord) Validate() error {
	if r.MedicineID == 0 {
		return fmt.Errorf("medicine_id is required")
	}
	if r.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	if r.ReorderLevel < 0 {
		return fmt.Errorf("reorder_level cannot be negative")
	}
	return nil
}

// IsLowStock reports whether the on-hand quantity has fallen to or below
// the reorder level.
func (r *InventoryRecord) IsLowStock() bool {
	return r.Quantity <= r.ReorderLevel
}
