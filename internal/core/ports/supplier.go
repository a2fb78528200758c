// internal/core/ports/supplier.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// SupplierRepository defines the persistence port for suppliers.
type SupplierRepository interface {
	Save(ctx context.Context, s *domain.Supplier) error
	FindByID(ctx context.Context, supplierID int64) (*domain.Supplier, error)
	FindAll(ctx context.Context) ([]domain.Supplier, error)
}
