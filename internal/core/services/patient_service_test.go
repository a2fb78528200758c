// internal/core/services/patient_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

func TestPatientService_SavePatient(t *testing.T) {
	tests := []struct {
		name          string
		patient       *domain.Patient
		setupMocks    func(repo *mocks.MockPatientRepository)
		expectedError error
		errorContains string
	}{
		{
			name:    "valid patient persisted",
			patient: helpers.CreateTestPatient(),
			setupMocks: func(repo *mocks.MockPatientRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Patient) error {
						p.ID = 11
						return nil
					})
			},
		},
		{
			name: "missing first name rejected before repository",
			patient: helpers.CreateTestPatient(func(p *domain.Patient) {
				p.FirstName = ""
			}),
			setupMocks:    func(repo *mocks.MockPatientRepository) {},
			expectedError: services.ErrInvalidRequest,
			errorContains: "first_name is required",
		},
		{
			name: "missing last name rejected before repository",
			patient: helpers.CreateTestPatient(func(p *domain.Patient) {
				p.LastName = ""
			}),
			setupMocks:    func(repo *mocks.MockPatientRepository) {},
			expectedError: services.ErrInvalidRequest,
			errorContains: "last_name is required",
		},
		{
			name:    "repository failure propagated",
			patient: helpers.CreateTestPatient(),
			setupMocks: func(repo *mocks.MockPatientRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("connection reset"))
			},
			errorContains: "failed to save patient",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockPatientRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewPatientService(repo, helpers.TestLogger())

			err := svc.SavePatient(context.Background(), tt.patient)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
			}
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			}
			if tt.expectedError == nil && tt.errorContains == "" {
				require.NoError(t, err)
			}
		})
	}
}

func TestPatientService_UpdatePatient(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPatientRepository(ctrl)
	svc := services.NewPatientService(repo, helpers.TestLogger())

	t.Run("path ID overrides body ID", func(t *testing.T) {
		patient := helpers.CreateTestPatient(func(p *domain.Patient) {
			p.ID = 999
		})

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Patient) error {
				assert.Equal(t, int64(7), p.ID)
				return nil
			})

		err := svc.UpdatePatient(context.Background(), 7, patient)
		require.NoError(t, err)
	})

	t.Run("unknown patient", func(t *testing.T) {
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(db.ErrNotFound)

		err := svc.UpdatePatient(context.Background(), 404, helpers.CreateTestPatient())
		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("invalid patient never reaches repository", func(t *testing.T) {
		patient := helpers.CreateTestPatient(func(p *domain.Patient) {
			p.FirstName = ""
		})

		err := svc.UpdatePatient(context.Background(), 7, patient)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidRequest)
	})
}

func TestPatientService_DeletePatient(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPatientRepository(ctrl)
	svc := services.NewPatientService(repo, helpers.TestLogger())

	t.Run("soft delete succeeds", func(t *testing.T) {
		repo.EXPECT().SoftDelete(gomock.Any(), int64(5)).Return(nil)

		require.NoError(t, svc.DeletePatient(context.Background(), 5))
	})

	t.Run("unknown patient", func(t *testing.T) {
		repo.EXPECT().SoftDelete(gomock.Any(), int64(404)).Return(db.ErrNotFound)

		err := svc.DeletePatient(context.Background(), 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestPatientService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPatientRepository(ctrl)
	svc := services.NewPatientService(repo, helpers.TestLogger())

	t.Run("defaults applied and pages computed", func(t *testing.T) {
		repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ports.PatientListParams) ([]*domain.Patient, int64, error) {
				assert.Equal(t, 1, params.Page)
				assert.Equal(t, 50, params.PageSize)
				return []*domain.Patient{helpers.CreateTestPatient()}, 101, nil
			})

		result, err := svc.List(context.Background(), ports.PatientListParams{Page: 0, PageSize: -1})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, int64(101), result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("oversized page size clamped", func(t *testing.T) {
		repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ports.PatientListParams) ([]*domain.Patient, int64, error) {
				assert.Equal(t, 50, params.PageSize)
				return nil, 0, nil
			})

		result, err := svc.List(context.Background(), ports.PatientListParams{Page: 1, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalPages)
	})

	t.Run("repository failure propagated", func(t *testing.T) {
		repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			Return(nil, int64(0), errors.New("query timeout"))

		_, err := svc.List(context.Background(), ports.PatientListParams{Page: 1, PageSize: 25})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list patients")
	})
}

func TestPatientService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPatientRepository(ctrl)
	svc := services.NewPatientService(repo, helpers.TestLogger())

	t.Run("found", func(t *testing.T) {
		expected := helpers.CreateTestPatient(func(p *domain.Patient) { p.ID = 3 })
		repo.EXPECT().FindByID(gomock.Any(), int64(3)).Return(expected, nil)

		p, err := svc.GetByID(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, expected, p)
	})

	t.Run("not found", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), int64(404)).Return(nil, db.ErrNotFound)

		_, err := svc.GetByID(context.Background(), 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}
