package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

func TestInvoice_ComputeTotal(t *testing.T) {
	tests := []struct {
		name          string
		lines         []domain.InvoiceLine
		expectedTotal string
	}{
		{
			name: "sums_line_subtotals",
			lines: []domain.InvoiceLine{
				{MedicineID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("4.99")},
				{MedicineID: 2, Quantity: 3, UnitPrice: decimal.RequireFromString("2.10")},
			},
			expectedTotal: "16.28",
		},
		{
			name: "single_line",
			lines: []domain.InvoiceLine{
				{MedicineID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("22.00")},
			},
			expectedTotal: "22",
		},
		{
			name:          "empty_invoice_is_zero",
			lines:         nil,
			expectedTotal: "0",
		},
		{
			name: "zero_price_line",
			lines: []domain.InvoiceLine{
				{MedicineID: 1, Quantity: 5, UnitPrice: decimal.Zero},
			},
			expectedTotal: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &domain.Invoice{Lines: tt.lines}

			inv.ComputeTotal()

			assert.True(t, inv.Total.Equal(decimal.RequireFromString(tt.expectedTotal)),
				"expected total %s, got %s", tt.expectedTotal, inv.Total)
		})
	}
}

func TestInvoice_ComputeTotal_SetsLineSubtotals(t *testing.T) {
	inv := &domain.Invoice{
		Lines: []domain.InvoiceLine{
			{MedicineID: 1, Quantity: 4, UnitPrice: decimal.RequireFromString("8.50")},
		},
	}

	inv.ComputeTotal()

	assert.True(t, inv.Lines[0].Subtotal.Equal(decimal.RequireFromString("34")),
		"expected subtotal 34, got %s", inv.Lines[0].Subtotal)
}
