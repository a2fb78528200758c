// internal/core/ports/inventory.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// InventoryRepository defines the persistence port for on-hand stock.
type InventoryRepository interface {
	FindByMedicineID(ctx context.Context, medicineID int64) (*domain.InventoryRecord, error)
	FindAll(ctx context.Context) ([]domain.InventoryRecord, error)
	FindLowStock(ctx context.Context) ([]domain.InventoryRecord, error)
	// Upsert sets the absolute quantity and reorder level for a medicine.
	Upsert(ctx context.Context, rec *domain.InventoryRecord) error
	// DeleteExpired removes batches whose expiry date has passed and
	// returns the number of rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// InventoryService defines the application service port for stock.
type InventoryService interface {
	GetByMedicineID(ctx context.Context, medicineID int64) (*domain.InventoryRecord, error)
	ListAll(ctx context.Context) ([]domain.InventoryRecord, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryRecord, error)
	SetStock(ctx context.Context, rec *domain.InventoryRecord) error
}
