package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

func TestOrder_Validate(t *testing.T) {
	tests := []struct {
		name      string
		order     *domain.Order
		wantError bool
		errorMsg  string
	}{
		{
			name: "valid_single_line_order",
			order: &domain.Order{
				PatientID: 7,
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: 2},
				},
			},
			wantError: false,
		},
		{
			name: "valid_multi_line_order",
			order: &domain.Order{
				PatientID: 7,
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: 2},
					{MedicineID: 9, Quantity: 1},
				},
			},
			wantError: false,
		},
		{
			name: "missing_patient",
			order: &domain.Order{
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: 2},
				},
			},
			wantError: true,
			errorMsg:  "patient_id is required",
		},
		{
			name: "empty_items",
			order: &domain.Order{
				PatientID: 7,
				Lines:     []domain.OrderLine{},
			},
			wantError: true,
			errorMsg:  "items must not be empty",
		},
		{
			name: "missing_medicine_on_line",
			order: &domain.Order{
				PatientID: 7,
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: 2},
					{Quantity: 1},
				},
			},
			wantError: true,
			errorMsg:  "items[1]: medicine_id is required",
		},
		{
			name: "zero_quantity_line",
			order: &domain.Order{
				PatientID: 7,
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: 0},
				},
			},
			wantError: true,
			errorMsg:  "items[0]: quantity must be positive",
		},
		{
			name: "negative_quantity_line",
			order: &domain.Order{
				PatientID: 7,
				Lines: []domain.OrderLine{
					{MedicineID: 3, Quantity: -4},
				},
			},
			wantError: true,
			errorMsg:  "items[0]: quantity must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.order.Validate()

			if tt.wantError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
