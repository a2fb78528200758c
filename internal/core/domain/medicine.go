// internal/core/domain/medicine.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MedicineCategory represents medicine categories
type MedicineCategory string

// Category constants
const (
	CategoryAntibiotic     MedicineCategory = "antibiotic"
	CategoryAnalgesic      MedicineCategory = "analgesic"
	CategoryAntihistamine  MedicineCategory = "antihistamine"
	CategoryAntiseptic     MedicineCategory = "antiseptic"
	CategoryCardiovascular MedicineCategory = "cardiovascular"
	CategoryDermatological MedicineCategory = "dermatological"
	CategoryGastro         MedicineCategory = "gastrointestinal"
	CategoryRespiratory    MedicineCategory = "respiratory"
	CategorySupplement     MedicineCategory = "supplement"
	CategoryVaccine        MedicineCategory = "vaccine"
	CategoryOther          MedicineCategory = "other"
)

// DosageForm represents how a medicine is administered
type DosageForm string

const (
	FormTablet    DosageForm = "tablet"
	FormCapsule   DosageForm = "capsule"
	FormSyrup     DosageForm = "syrup"
	FormInjection DosageForm = "injection"
	FormOintment  DosageForm = "ointment"
	FormDrops     DosageForm = "drops"
	FormInhaler   DosageForm = "inhaler"
	FormUnknown   DosageForm = "unknown"
)

// Medicine represents a catalog entry
type Medicine struct {
	ID           int64            `json:"medicine_id"`
	Name         string           `json:"name"`
	GenericName  string           `json:"generic_name,omitempty"`
	Category     MedicineCategory `json:"category"`
	DosageForm   DosageForm       `json:"dosage_form"`
	Strength     string           `json:"strength,omitempty"`
	Manufacturer string           `json:"manufacturer,omitempty"`
	SupplierID   *int64           `json:"supplier_id,omitempty"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	RequiresRx   bool             `json:"requires_prescription"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    *time.Time       `json:"deleted_at,omitempty"`
}

// Validate performs domain validation on the medicine
func (m *Medicine) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.UnitPrice.IsNegative() {
		return fmt.Errorf("unit_price cannot be negative")
	}
	if m.Category == "" {
		m.Category = CategoryOther
	}
	if m.DosageForm == "" {
		m.DosageForm = FormUnknown
	}
	return nil
}

// PrepareForStorage sets timestamps before the medicine is persisted.
func (m *Medicine) PrepareForStorage() {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
