// internal/adapters/db/invoice_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// invoiceRepository implements ports.InvoiceRepository
type invoiceRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *Database, logger *slog.Logger) ports.InvoiceRepository {
	return &invoiceRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "invoice")),
	}
}

var _ ports.InvoiceRepository = (*invoiceRepository)(nil)

const invoiceLineQuery = `
	SELECT o.order_id, o.patient_id,
	       p.first_name || ' ' || p.last_name AS patient_name,
	       o.order_date,
	       oi.medicine_id, m.name AS medicine_name,
	       oi.quantity, m.unit_price
	FROM orders o
	JOIN order_items oi ON oi.order_id = o.order_id
	JOIN patients p ON p.patient_id = o.patient_id
	JOIN medicines m ON m.medicine_id = oi.medicine_id`

// BuildForOrder derives the invoice for one order from its lines and the
// current medicine prices.
func (r *invoiceRepository) BuildForOrder(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	query := invoiceLineQuery + `
	WHERE o.order_id = $1
	ORDER BY oi.item_id`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice lines: %w", TranslateError(err))
	}
	defer rows.Close()

	var invoice *domain.Invoice
	for rows.Next() {
		var (
			inv  domain.Invoice
			line domain.InvoiceLine
		)
		if err := rows.Scan(&inv.OrderID, &inv.PatientID, &inv.PatientName,
			&inv.OrderDate, &line.MedicineID, &line.MedicineName,
			&line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", TranslateError(err))
		}

		if invoice == nil {
			invoice = &inv
		}
		invoice.Lines = append(invoice.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoice lines: %w", TranslateError(err))
	}

	if invoice == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}

	invoice.ComputeTotal()
	return invoice, nil
}

// ListAll derives invoices for every order, newest first.
func (r *invoiceRepository) ListAll(ctx context.Context) ([]domain.Invoice, error) {
	query := invoiceLineQuery + `
	ORDER BY o.order_id DESC, oi.item_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", TranslateError(err))
	}
	defer rows.Close()

	invoices := make([]domain.Invoice, 0)
	byOrder := make(map[int64]int)

	for rows.Next() {
		var (
			inv  domain.Invoice
			line domain.InvoiceLine
		)
		if err := rows.Scan(&inv.OrderID, &inv.PatientID, &inv.PatientName,
			&inv.OrderDate, &line.MedicineID, &line.MedicineName,
			&line.Quantity, &line.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan invoice line: %w", TranslateError(err))
		}

		idx, ok := byOrder[inv.OrderID]
		if !ok {
			inv.Total = decimal.Zero
			invoices = append(invoices, inv)
			idx = len(invoices) - 1
			byOrder[inv.OrderID] = idx
		}
		invoices[idx].Lines = append(invoices[idx].Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invoices: %w", TranslateError(err))
	}

	for i := range invoices {
		invoices[i].ComputeTotal()
	}

	return invoices, nil
}
