// internal/workers/lowstock_processor_test.go
package workers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/workers"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

func TestLowStockProcessor_ScanLowStock(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(inventory *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository)
		expectedError bool
	}{
		{
			name: "caches the reorder list",
			setupMocks: func(inventory *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				records := []domain.InventoryRecord{
					{MedicineID: 1, Quantity: 2, ReorderLevel: 10},
					{MedicineID: 4, Quantity: 0, ReorderLevel: 5},
				}
				inventory.EXPECT().FindLowStock(gomock.Any()).Return(records, nil)
				cache.EXPECT().
					SetWithTTL(gomock.Any(), "dash:low_stock", gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "nothing flagged still refreshes the cache",
			setupMocks: func(inventory *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				inventory.EXPECT().FindLowStock(gomock.Any()).Return([]domain.InventoryRecord{}, nil)
				cache.EXPECT().
					SetWithTTL(gomock.Any(), "dash:low_stock", gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "repository failure surfaces for retry",
			setupMocks: func(inventory *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				inventory.EXPECT().FindLowStock(gomock.Any()).Return(nil, errors.New("query failed"))
			},
			expectedError: true,
		},
		{
			name: "cache failure is logged, not fatal",
			setupMocks: func(inventory *mocks.MockInventoryRepository, cache *mocks.MockCacheRepository) {
				inventory.EXPECT().
					FindLowStock(gomock.Any()).
					Return([]domain.InventoryRecord{{MedicineID: 1, Quantity: 1, ReorderLevel: 10}}, nil)
				cache.EXPECT().
					SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("redis: connection refused"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			inventory := mocks.NewMockInventoryRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(inventory, cache)

			processor := workers.NewLowStockProcessor(inventory, cache, helpers.TestLogger())

			err := processor.ScanLowStock(context.Background(), workers.NewLowStockScanTask())

			if tt.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCleanupProcessor_CleanupExpiredStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inventory := mocks.NewMockInventoryRepository(ctrl)
	inventory.EXPECT().DeleteExpired(gomock.Any()).Return(int64(3), nil)

	processor := workers.NewCleanupProcessor(inventory, helpers.LoadTestConfig(), helpers.TestLogger())

	err := processor.CleanupExpiredStock(context.Background(), workers.NewCleanupExpiredTask())
	require.NoError(t, err)
}

func TestCleanupProcessor_CleanupExpiredStock_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	inventory := mocks.NewMockInventoryRepository(ctrl)
	inventory.EXPECT().DeleteExpired(gomock.Any()).Return(int64(0), errors.New("query failed"))

	processor := workers.NewCleanupProcessor(inventory, helpers.LoadTestConfig(), helpers.TestLogger())

	err := processor.CleanupExpiredStock(context.Background(), workers.NewCleanupExpiredTask())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to purge expired stock")
}
