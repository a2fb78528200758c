// internal/core/ports/prescription.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// PrescriptionRepository defines the persistence port for prescriptions.
type PrescriptionRepository interface {
	// Save inserts the prescription header and its lines atomically.
	Save(ctx context.Context, p *domain.Prescription) error
	FindByID(ctx context.Context, prescriptionID int64) (*domain.Prescription, error)
	FindByPatientID(ctx context.Context, patientID int64) ([]domain.Prescription, error)
}
