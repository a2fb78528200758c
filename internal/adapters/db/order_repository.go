// internal/adapters/db/order_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// orderRepository implements ports.OrderRepository
type orderRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *Database, logger *slog.Logger) ports.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "order")),
	}
}

// CreateOrder runs the full placement as one transaction: the order header,
// every line item in input order, and (when updateInventory is set) one
// guarded decrement per line. A decrement that matches zero rows is counted
// and skipped rather than failing the order; every other error aborts the
// whole transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order, updateInventory bool) (*ports.PlaceOrderResult, error) {
	result := &ports.PlaceOrderResult{}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		const headerQuery = `
			INSERT INTO orders (patient_id, supplier_id, employee_id, order_date)
			VALUES ($1, $2, $3, $4)
			RETURNING order_id`

		orderDate := order.OrderDate
		if orderDate.IsZero() {
			orderDate = time.Now().UTC()
		}

		err := tx.QueryRow(ctx, headerQuery,
			order.PatientID, order.SupplierID, order.EmployeeID, orderDate,
		).Scan(&order.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order header: %w", TranslateError(err))
		}
		order.OrderDate = orderDate

		const lineQuery = `
			INSERT INTO order_items (order_id, medicine_id, quantity)
			VALUES ($1, $2, $3)`

		const decrementQuery = `
			UPDATE inventory
			SET quantity = quantity - $1, updated_at = NOW()
			WHERE medicine_id = $2 AND quantity >= $1`

		for i := range order.Lines {
			line := &order.Lines[i]
			line.OrderID = order.ID

			if _, err := tx.Exec(ctx, lineQuery, line.OrderID, line.MedicineID, line.Quantity); err != nil {
				return fmt.Errorf("failed to insert order item %d: %w", i, TranslateError(err))
			}

			if !updateInventory {
				continue
			}

			tag, err := tx.Exec(ctx, decrementQuery, line.Quantity, line.MedicineID)
			if err != nil {
				return fmt.Errorf("failed to decrement inventory for medicine %d: %w",
					line.MedicineID, TranslateError(err))
			}
			if tag.RowsAffected() == 0 {
				// Insufficient stock or no inventory row for this medicine.
				result.SkippedDecrements++
				r.logger.WarnContext(ctx, "inventory decrement skipped",
					slog.Int64("medicine_id", line.MedicineID),
					slog.Int("quantity", line.Quantity))
			}
		}

		const logQuery = `
			INSERT INTO patient_logs (patient_id, activity)
			VALUES ($1, 'order placed')`

		if _, err := tx.Exec(ctx, logQuery, order.PatientID); err != nil {
			return fmt.Errorf("failed to record patient activity: %w", TranslateError(err))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	result.OrderID = order.ID

	r.logger.InfoContext(ctx, "order created",
		slog.Int64("order_id", result.OrderID),
		slog.Int("lines", len(order.Lines)),
		slog.Bool("update_inventory", updateInventory),
		slog.Int("skipped_decrements", result.SkippedDecrements))

	return result, nil
}

// FindByID loads a single order with its line items.
func (r *orderRepository) FindByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	const headerQuery = `
		SELECT order_id, patient_id, supplier_id, employee_id, order_date
		FROM orders
		WHERE order_id = $1`

	order := &domain.Order{}
	err := r.db.QueryRow(ctx, headerQuery, orderID).Scan(
		&order.ID, &order.PatientID, &order.SupplierID, &order.EmployeeID, &order.OrderDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find order %d: %w", orderID, TranslateError(err))
	}

	const linesQuery = `
		SELECT order_id, medicine_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY item_id`

	rows, err := r.db.Query(ctx, linesQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", TranslateError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.OrderID, &line.MedicineID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading order items: %w", TranslateError(err))
	}

	return order, nil
}

// ListSummaries returns the denormalized order listing, one row per line
// item, joined against patients and medicines plus each patient's latest
// activity-log date, newest orders first.
func (r *orderRepository) ListSummaries(ctx context.Context) ([]domain.OrderSummary, error) {
	const query = `
		SELECT o.order_id, o.patient_id, p.first_name || ' ' || p.last_name AS patient_name,
		       oi.medicine_id, m.name AS medicine_name,
		       oi.quantity, o.order_date, pl.last_log_date
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		JOIN patients p ON p.patient_id = o.patient_id
		JOIN medicines m ON m.medicine_id = oi.medicine_id
		LEFT JOIN (
			SELECT patient_id, MAX(log_date) AS last_log_date
			FROM patient_logs
			GROUP BY patient_id
		) pl ON pl.patient_id = o.patient_id
		ORDER BY o.order_id DESC, oi.item_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", TranslateError(err))
	}
	defer rows.Close()

	summaries := make([]domain.OrderSummary, 0)
	for rows.Next() {
		var s domain.OrderSummary
		if err := rows.Scan(
			&s.OrderID, &s.PatientID, &s.PatientName,
			&s.MedicineID, &s.MedicineName,
			&s.Quantity, &s.OrderDate, &s.LastLogDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading order summaries: %w", TranslateError(err))
	}

	return summaries, nil
}
