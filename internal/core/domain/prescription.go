// internal/core/domain/prescription.go
package domain

import (
	"fmt"
	"time"
)

// Prescription represents a doctor's prescription recorded for a patient.
type Prescription struct {
	ID         int64              `json:"prescription_id"`
	PatientID  int64              `json:"patient_id"`
	DoctorName string             `json:"doctor_name"`
	IssuedAt   time.Time          `json:"issued_at"`
	Notes      string             `json:"notes,omitempty"`
	Lines      []PrescriptionLine `json:"items,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}

// PrescriptionLine is one prescribed medicine within a prescription.
type PrescriptionLine struct {
	PrescriptionID int64  `json:"prescription_id,omitempty"`
	MedicineID     int64  `json:"medicine_id"`
	Dosage         string `json:"dosage,omitempty"`
	Quantity       int    `json:"quantity"`
}

// Validate performs domain validation on the prescription
func (p *Prescription) Validate() error {
	if p.PatientID == 0 {
		return fmt.Errorf("patient_id is required")
	}
	if p.DoctorName == "" {
		return fmt.Errorf("doctor_name is required")
	}
	if len(p.Lines) == 0 {
		return fmt.Errorf("items must not be empty")
	}
	for i, line := range p.Lines {
		if line.MedicineID == 0 {
			return fmt.Errorf("items[%d]: medicine_id is required", i)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("items[%d]: quantity must be positive", i)
		}
	}
	return nil
}
