// internal/core/ports/patient.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// PatientRepository defines the persistence port for patients.
type PatientRepository interface {
	Save(ctx context.Context, p *domain.Patient) error
	Update(ctx context.Context, p *domain.Patient) error
	FindByID(ctx context.Context, patientID int64) (*domain.Patient, error)
	FindAll(ctx context.Context, params PatientListParams) ([]*domain.Patient, int64, error)
	SoftDelete(ctx context.Context, patientID int64) error
}

// PatientService defines the application service port for patients.
type PatientService interface {
	SavePatient(ctx context.Context, p *domain.Patient) error
	UpdatePatient(ctx context.Context, patientID int64, p *domain.Patient) error
	GetByID(ctx context.Context, patientID int64) (*domain.Patient, error)
	DeletePatient(ctx context.Context, patientID int64) error
	List(ctx context.Context, params PatientListParams) (*PatientListResult, error)
}

// PatientListParams holds parameters for listing patients
type PatientListParams struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// PatientListResult holds the result of listing patients
type PatientListResult struct {
	Items      []*domain.Patient `json:"items"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}
