// internal/core/domain/order.go
package domain

import (
	"fmt"
	"time"
)

// Order is the header row written once per checkout. Orders are immutable
// after creation; they are never updated or deleted in normal operation.
type Order struct {
	ID         int64       `json:"order_id"`
	PatientID  int64       `json:"patient_id"`
	SupplierID *int64      `json:"supplier_id,omitempty"`
	EmployeeID *int64      `json:"employee_id,omitempty"`
	OrderDate  time.Time   `json:"order_date"`
	Lines      []OrderLine `json:"items,omitempty"`
}

// OrderLine is one medicine+quantity entry within an order. Lines are
// created in a batch alongside their parent order and immutable thereafter.
type OrderLine struct {
	OrderID    int64 `json:"order_id,omitempty"`
	MedicineID int64 `json:"medicine_id"`
	Quantity   int   `json:"quantity"`
}

// OrderSummary is the denormalized row returned by the order listing.
// LastLogDate is the patient's most recent activity-log entry, nil for
// patients with no log rows.
type OrderSummary struct {
	OrderID      int64      `json:"order_id"`
	PatientID    int64      `json:"patient_id"`
	PatientName  string     `json:"patient_name"`
	MedicineID   int64      `json:"medicine_id"`
	MedicineName string     `json:"medicine_name"`
	Quantity     int        `json:"quantity"`
	OrderDate    time.Time  `json:"order_date"`
	LastLogDate  *time.Time `json:"last_log_date"`
}

// Validate checks the order request before any transaction is opened.
// Referential existence of patient/medicine is deliberately NOT checked
// here; the database's constraints enforce it and violations surface as a
// transactional failure.
func (o *Order) Validate() error {
	if o.PatientID == 0 {
		return fmt.Errorf("patient_id is required")
	}
	if len(o.Lines) == 0 {
		return fmt.Errorf("items must not be empty")
	}
	for i, line := range o.Lines {
		if line.MedicineID == 0 {
			return fmt.Errorf("items[%d]: medicine_id is required", i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("items[%d]: quantity must be positive", i)
		}
	}
	return nil
}
