// internal/core/services/medicine.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// MedicineService handles medicine catalog business logic
type MedicineService struct {
	repo   ports.MedicineRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

var _ ports.MedicineService = (*MedicineService)(nil)

// NewMedicineService creates a new medicine service
func NewMedicineService(repo ports.MedicineRepository, cache ports.CacheRepository, logger *slog.Logger) *MedicineService {
	return &MedicineService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "medicine")),
	}
}

// SaveMedicine validates and persists a new catalog entry
func (s *MedicineService) SaveMedicine(ctx context.Context, med *domain.Medicine) error {
	if err := med.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if err := s.repo.Save(ctx, med); err != nil {
		return fmt.Errorf("failed to save medicine: %w", err)
	}

	s.invalidate(ctx)

	s.logger.InfoContext(ctx, "medicine saved",
		slog.Int64("medicine_id", med.ID),
		slog.String("name", med.Name))

	return nil
}

// UpdateMedicine validates and updates an existing catalog entry
func (s *MedicineService) UpdateMedicine(ctx context.Context, medicineID int64, med *domain.Medicine) error {
	if err := med.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	med.ID = medicineID

	if err := s.repo.Update(ctx, med); err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// GetByID retrieves a medicine by ID
func (s *MedicineService) GetByID(ctx context.Context, medicineID int64) (*domain.Medicine, error) {
	med, err := s.repo.FindByID(ctx, medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return med, nil
}

// DeleteMedicine soft-deletes a catalog entry. Order history keeps its
// references; the entry just stops appearing in listings.
func (s *MedicineService) DeleteMedicine(ctx context.Context, medicineID int64) error {
	if err := s.repo.SoftDelete(ctx, medicineID); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// List retrieves medicines with filtering and pagination
func (s *MedicineService) List(ctx context.Context, params ports.MedicineListParams) (*ports.MedicineListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}

	items, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.MedicineListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (s *MedicineService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "med:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate medicine cache",
			slog.Any("error", err))
	}
}
