// internal/core/services/medicine_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

func TestMedicineService_SaveMedicine(t *testing.T) {
	tests := []struct {
		name          string
		medicine      *domain.Medicine
		setupMocks    func(repo *mocks.MockMedicineRepository, cache *mocks.MockCacheRepository)
		expectedError error
		errorContains string
	}{
		{
			name:     "valid medicine persisted and cache invalidated",
			medicine: helpers.CreateTestMedicine(),
			setupMocks: func(repo *mocks.MockMedicineRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "med:*").Return(nil)
			},
		},
		{
			name: "missing name rejected before repository",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.Name = ""
			}),
			setupMocks:    func(repo *mocks.MockMedicineRepository, cache *mocks.MockCacheRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
		{
			name: "negative price rejected before repository",
			medicine: helpers.CreateTestMedicine(func(m *domain.Medicine) {
				m.UnitPrice = decimal.NewFromFloat(-1.50)
			}),
			setupMocks:    func(repo *mocks.MockMedicineRepository, cache *mocks.MockCacheRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
		{
			name:     "repository failure propagates without cache invalidation",
			medicine: helpers.CreateTestMedicine(),
			setupMocks: func(repo *mocks.MockMedicineRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("unique violation"))
			},
			errorContains: "failed to save medicine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockMedicineRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewMedicineService(repo, cache, helpers.TestLogger())

			err := svc.SaveMedicine(context.Background(), tt.medicine)

			if tt.expectedError != nil || tt.errorContains != "" {
				require.Error(t, err)
				if tt.expectedError != nil {
					assert.ErrorIs(t, err, tt.expectedError)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMedicineService_UpdateMedicine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMedicineRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	repo.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, med *domain.Medicine) error {
			// The path parameter wins over whatever ID the body carries.
			assert.Equal(t, int64(55), med.ID)
			return nil
		})
	cache.EXPECT().DeletePattern(gomock.Any(), "med:*").Return(nil)

	svc := services.NewMedicineService(repo, cache, helpers.TestLogger())

	med := helpers.CreateTestMedicine(func(m *domain.Medicine) { m.ID = 999 })
	err := svc.UpdateMedicine(context.Background(), 55, med)
	require.NoError(t, err)
}

func TestMedicineService_DeleteMedicine(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockMedicineRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	repo.EXPECT().SoftDelete(gomock.Any(), int64(7)).Return(nil)
	cache.EXPECT().DeletePattern(gomock.Any(), "med:*").Return(nil)

	svc := services.NewMedicineService(repo, cache, helpers.TestLogger())

	require.NoError(t, svc.DeleteMedicine(context.Background(), 7))
}

func TestMedicineService_List(t *testing.T) {
	tests := []struct {
		name         string
		params       ports.MedicineListParams
		total        int64
		wantPage     int
		wantPageSize int
		wantPages    int
	}{
		{
			name:         "defaults applied for zero params",
			params:       ports.MedicineListParams{},
			total:        120,
			wantPage:     1,
			wantPageSize: 50,
			wantPages:    3,
		},
		{
			name:         "oversized page size clamped to default",
			params:       ports.MedicineListParams{Page: 2, PageSize: 10_000},
			total:        120,
			wantPage:     2,
			wantPageSize: 50,
			wantPages:    3,
		},
		{
			name:         "exact multiple has no partial page",
			params:       ports.MedicineListParams{Page: 1, PageSize: 20},
			total:        100,
			wantPage:     1,
			wantPageSize: 20,
			wantPages:    5,
		},
		{
			name:         "empty catalog is zero pages",
			params:       ports.MedicineListParams{Page: 1, PageSize: 20},
			total:        0,
			wantPage:     1,
			wantPageSize: 20,
			wantPages:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockMedicineRepository(ctrl)
			repo.EXPECT().
				FindAll(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, params ports.MedicineListParams) ([]*domain.Medicine, int64, error) {
					assert.Equal(t, tt.wantPage, params.Page)
					assert.Equal(t, tt.wantPageSize, params.PageSize)
					return []*domain.Medicine{}, tt.total, nil
				})

			svc := services.NewMedicineService(repo, nil, helpers.TestLogger())

			result, err := svc.List(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantPageSize, result.PageSize)
			assert.Equal(t, tt.total, result.TotalCount)
			assert.Equal(t, tt.wantPages, result.TotalPages)
		})
	}
}
