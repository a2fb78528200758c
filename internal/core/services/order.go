// internal/core/services/order.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// OrderService handles order placement business logic
type OrderService struct {
	repo   ports.OrderRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *OrderService implements the OrderService interface.
var _ ports.OrderService = (*OrderService)(nil)

// NewOrderService creates a new order service
func NewOrderService(repo ports.OrderRepository, cache ports.CacheRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "order")),
	}
}

// PlaceOrder validates the request and runs the placement transaction.
// Validation failures reject before anything is written; any transaction
// failure surfaces as ErrOrderCreationFailed with the cause wrapped.
func (s *OrderService) PlaceOrder(ctx context.Context, order *domain.Order, updateInventory bool) (*ports.PlaceOrderResult, error) {
	if err := order.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	result, err := s.repo.CreateOrder(ctx, order, updateInventory)
	if err != nil {
		s.logger.ErrorContext(ctx, "order placement failed",
			slog.Int64("patient_id", order.PatientID),
			slog.Int("lines", len(order.Lines)),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrOrderCreationFailed, err)
	}

	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, "orders:*"); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate order cache",
				slog.Any("error", err))
		}
		if updateInventory {
			if err := s.cache.DeletePattern(ctx, "dash:*"); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
					slog.Any("error", err))
			}
		}
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", result.OrderID),
		slog.Int("skipped_decrements", result.SkippedDecrements))

	return result, nil
}

// GetOrder retrieves a single order with its lines
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrders returns the denormalized order listing
func (s *OrderService) ListOrders(ctx context.Context) ([]domain.OrderSummary, error) {
	summaries, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return summaries, nil
}
