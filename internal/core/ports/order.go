// internal/core/ports/order.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// PlaceOrderResult is returned by a successful order placement.
// SkippedDecrements counts line items whose conditional inventory
// decrement matched zero rows (insufficient stock or no inventory row);
// the order itself still succeeds.
type PlaceOrderResult struct {
	OrderID           int64
	SkippedDecrements int
}

// OrderRepository defines the persistence port for orders.
// This interface is implemented by the database adapter.
type OrderRepository interface {
	// CreateOrder runs the whole placement transaction: order header,
	// order lines in input order, and (when updateInventory is set) one
	// guarded decrement per line.
	CreateOrder(ctx context.Context, order *domain.Order, updateInventory bool) (*PlaceOrderResult, error)
	FindByID(ctx context.Context, orderID int64) (*domain.Order, error)
	ListSummaries(ctx context.Context) ([]domain.OrderSummary, error)
}

// OrderService defines the application service port for order placement.
type OrderService interface {
	PlaceOrder(ctx context.Context, order *domain.Order, updateInventory bool) (*PlaceOrderResult, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.OrderSummary, error)
}
