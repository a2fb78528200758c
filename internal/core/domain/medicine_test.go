package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

func TestMedicine_Validate(t *testing.T) {
	tests := []struct {
		name      string
		medicine  *domain.Medicine
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_medicine",
			medicine: &domain.Medicine{
				Name:       "Amoxicillin 500mg",
				Category:   domain.CategoryAntibiotic,
				DosageForm: domain.FormCapsule,
				UnitPrice:  decimal.RequireFromString("8.50"),
			},
			wantError: false,
		},
		{
			name: "missing_name",
			medicine: &domain.Medicine{
				UnitPrice: decimal.RequireFromString("8.50"),
			},
			wantError: true,
			errorMsg:  "name is required",
		},
		{
			name: "negative_price",
			medicine: &domain.Medicine{
				Name:      "Amoxicillin 500mg",
				UnitPrice: decimal.RequireFromString("-1"),
			},
			wantError: true,
			errorMsg:  "unit_price cannot be negative",
		},
		{
			name: "zero_price_is_allowed",
			medicine: &domain.Medicine{
				Name: "Sample Pack",
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.medicine.Validate()

			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMedicine_Validate_Defaults(t *testing.T) {
	med := &domain.Medicine{Name: "Unclassified Syrup"}

	require.NoError(t, med.Validate())

	assert.Equal(t, domain.CategoryOther, med.Category)
	assert.Equal(t, domain.FormUnknown, med.DosageForm)
}

func TestMedicine_PrepareForStorage(t *testing.T) {
	med := &domain.Medicine{Name: "Amoxicillin 500mg"}

	med.PrepareForStorage()

	assert.False(t, med.CreatedAt.IsZero())
	assert.False(t, med.UpdatedAt.IsZero())

	created := med.CreatedAt
	med.PrepareForStorage()
	assert.Equal(t, created, med.CreatedAt, "created_at must not change on update")
}
