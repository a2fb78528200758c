// internal/core/domain/invoice.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the billing read model derived from an order and the medicine
// prices at read time. Invoices are not stored; they are computed per order.
type Invoice struct {
	OrderID     int64           `json:"order_id"`
	PatientID   int64           `json:"patient_id"`
	PatientName string          `json:"patient_name"`
	OrderDate   time.Time       `json:"order_date"`
	Lines       []InvoiceLine   `json:"lines"`
	Total       decimal.Decimal `json:"total"`
}

// InvoiceLine is one billed medicine within an invoice.
type InvoiceLine struct {
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ComputeTotal recomputes line subtotals and the invoice total.
func (inv *Invoice) ComputeTotal() {
	total := decimal.Zero
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(line.Subtotal)
	}
	inv.Total = total
}
