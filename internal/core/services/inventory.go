// internal/core/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// InventoryService handles stock management business logic
type InventoryService struct {
	repo   ports.InventoryRepository
	logger *slog.Logger
}

var _ ports.InventoryService = (*InventoryService)(nil)

// NewInventoryService creates a new inventory service
func NewInventoryService(repo ports.InventoryRepository, logger *slog.Logger) *InventoryService {
	return &InventoryService{
		repo:   repo,
		logger: logger.With(slog.String("service", "inventory")),
	}
}

// GetByMedicineID retrieves the stock record for one medicine
func (s *InventoryService) GetByMedicineID(ctx context.Context, medicineID int64) (*domain.InventoryRecord, error) {
	rec, err := s.repo.FindByMedicineID(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return rec, nil
}

// ListAll retrieves every stock record
func (s *InventoryService) ListAll(ctx context.Context) ([]domain.InventoryRecord, error) {
	records, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return records, nil
}

// ListLowStock retrieves records at or below their reorder level
func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.InventoryRecord, error) {
	records, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return records, nil
}

// SetStock sets the absolute quantity and reorder level for a medicine.
// This is the restock path used by the admin surface; it never runs
// inside an order transaction.
func (s *InventoryService) SetStock(ctx context.Context, rec *domain.InventoryRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("failed to set stock: %w", err)
	}

	s.logger.InfoContext(ctx, "stock set",
		slog.Int64("medicine_id", rec.MedicineID),
		slog.Int("quantity", rec.Quantity),
		slog.Int("reorder_level", rec.ReorderLevel))

	return nil
}
