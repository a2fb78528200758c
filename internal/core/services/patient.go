// internal/core/services/patient.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// PatientService handles patient registry business logic
type PatientService struct {
	repo   ports.PatientRepository
	logger *slog.Logger
}

var _ ports.PatientService = (*PatientService)(nil)

// NewPatientService creates a new patient service
func NewPatientService(repo ports.PatientRepository, logger *slog.Logger) *PatientService {
	return &PatientService{
		repo:   repo,
		logger: logger.With(slog.String("service", "patient")),
	}
}

// SavePatient validates and registers a new patient
func (s *PatientService) SavePatient(ctx context.Context, p *domain.Patient) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return fmt.Errorf("failed to save patient: %w", err)
	}

	s.logger.InfoContext(ctx, "patient registered", slog.Int64("patient_id", p.ID))

	return nil
}

// UpdatePatient validates and updates an existing patient
func (s *PatientService) UpdatePatient(ctx context.Context, patientID int64, p *domain.Patient) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	p.ID = patientID

	if err := s.repo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	return nil
}

// GetByID retrieves a patient by ID
func (s *PatientService) GetByID(ctx context.Context, patientID int64) (*domain.Patient, error) {
	p, err := s.repo.FindByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

// DeletePatient soft-deletes a patient record
func (s *PatientService) DeletePatient(ctx context.Context, patientID int64) error {
	if err := s.repo.SoftDelete(ctx, patientID); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// List retrieves patients with filtering and pagination
func (s *PatientService) List(ctx context.Context, params ports.PatientListParams) (*ports.PatientListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 200 {
		params.PageSize = 50
	}

	items, total, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.PatientListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}
