// internal/core/ports/medicine.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// MedicineRepository defines the persistence port for the medicine catalog.
type MedicineRepository interface {
	Save(ctx context.Context, med *domain.Medicine) error
	Update(ctx context.Context, med *domain.Medicine) error
	FindByID(ctx context.Context, medicineID int64) (*domain.Medicine, error)
	FindAll(ctx context.Context, params MedicineListParams) ([]*domain.Medicine, int64, error)
	SoftDelete(ctx context.Context, medicineID int64) error
	Exists(ctx context.Context, medicineID int64) (bool, error)
}

// MedicineService defines the application service port for the catalog.
type MedicineService interface {
	SaveMedicine(ctx context.Context, med *domain.Medicine) error
	UpdateMedicine(ctx context.Context, medicineID int64, med *domain.Medicine) error
	GetByID(ctx context.Context, medicineID int64) (*domain.Medicine, error)
	DeleteMedicine(ctx context.Context, medicineID int64) error
	List(ctx context.Context, params MedicineListParams) (*MedicineListResult, error)
}

// MedicineListParams holds parameters for listing medicines
type MedicineListParams struct {
	Search     string
	Category   string
	DosageForm string
	SupplierID *int64
	RequiresRx *bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// MedicineListResult holds the result of listing medicines
type MedicineListResult struct {
	Items      []*domain.Medicine `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalCount int64              `json:"total_count"`
	TotalPages int                `json:"total_pages"`
}
