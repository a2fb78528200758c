// internal/core/services/order_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name            string
		order           *domain.Order
		updateInventory bool
		setupMocks      func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository)
		expectedError   error
		expectedOrderID int64
		expectedSkipped int
	}{
		{
			name:            "successful placement with inventory update",
			order:           helpers.CreateTestOrder(),
			updateInventory: true,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), true).
					Return(&ports.PlaceOrderResult{OrderID: 7}, nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "orders:*").Return(nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
			expectedOrderID: 7,
		},
		{
			name:            "successful placement without inventory update skips dashboard invalidation",
			order:           helpers.CreateTestOrder(),
			updateInventory: false,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), false).
					Return(&ports.PlaceOrderResult{OrderID: 11}, nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "orders:*").Return(nil)
			},
			expectedOrderID: 11,
		},
		{
			name: "lines with insufficient stock are reported, not fatal",
			order: helpers.CreateTestOrder(func(o *domain.Order) {
				o.Lines = append(o.Lines, domain.OrderLine{MedicineID: 3, Quantity: 500})
			}),
			updateInventory: true,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), true).
					Return(&ports.PlaceOrderResult{OrderID: 12, SkippedDecrements: 1}, nil)
				cache.EXPECT().DeletePattern(gomock.Any(), gomock.Any()).Return(nil).Times(2)
			},
			expectedOrderID: 12,
			expectedSkipped: 1,
		},
		{
			name: "missing patient rejected before repository",
			order: helpers.CreateTestOrder(func(o *domain.Order) {
				o.PatientID = 0
			}),
			updateInventory: true,
			setupMocks:      func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {},
			expectedError:   services.ErrInvalidRequest,
		},
		{
			name: "empty item list rejected before repository",
			order: helpers.CreateTestOrder(func(o *domain.Order) {
				o.Lines = nil
			}),
			updateInventory: true,
			setupMocks:      func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {},
			expectedError:   services.ErrInvalidRequest,
		},
		{
			name: "non-positive quantity rejected before repository",
			order: helpers.CreateTestOrder(func(o *domain.Order) {
				o.Lines = []domain.OrderLine{{MedicineID: 1, Quantity: 0}}
			}),
			updateInventory: true,
			setupMocks:      func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {},
			expectedError:   services.ErrInvalidRequest,
		},
		{
			name:            "repository failure wraps as creation failure",
			order:           helpers.CreateTestOrder(),
			updateInventory: true,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), true).
					Return(nil, errors.New("insert order: connection reset"))
			},
			expectedError: services.ErrOrderCreationFailed,
		},
		{
			name:            "cache invalidation failure does not fail the order",
			order:           helpers.CreateTestOrder(),
			updateInventory: false,
			setupMocks: func(repo *mocks.MockOrderRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					CreateOrder(gomock.Any(), gomock.Any(), false).
					Return(&ports.PlaceOrderResult{OrderID: 21}, nil)
				cache.EXPECT().
					DeletePattern(gomock.Any(), "orders:*").
					Return(errors.New("redis: connection refused"))
			},
			expectedOrderID: 21,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockOrderRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			svc := services.NewOrderService(repo, cache, helpers.TestLogger())

			result, err := svc.PlaceOrder(context.Background(), tt.order, tt.updateInventory)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.expectedOrderID, result.OrderID)
			assert.Equal(t, tt.expectedSkipped, result.SkippedDecrements)
		})
	}
}

func TestOrderService_PlaceOrder_NilCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockOrderRepository(ctrl)
	repo.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any(), true).
		Return(&ports.PlaceOrderResult{OrderID: 3}, nil)

	svc := services.NewOrderService(repo, nil, helpers.TestLogger())

	result, err := svc.PlaceOrder(context.Background(), helpers.CreateTestOrder(), true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.OrderID)
}

func TestOrderService_GetOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockOrderRepository(ctrl)
	want := &domain.Order{
		ID:        42,
		PatientID: 1,
		OrderDate: time.Now().UTC(),
		Lines: []domain.OrderLine{
			{OrderID: 42, MedicineID: 5, Quantity: 2},
		},
	}
	repo.EXPECT().FindByID(gomock.Any(), int64(42)).Return(want, nil)

	svc := services.NewOrderService(repo, nil, helpers.TestLogger())

	got, err := svc.GetOrder(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOrderService_ListOrders(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *mocks.MockOrderRepository)
		wantLen    int
		wantErr    bool
	}{
		{
			name: "returns summaries newest first",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().ListSummaries(gomock.Any()).Return([]domain.OrderSummary{
					{OrderID: 2, PatientName: "Maria Santos", MedicineName: "Ibuprofen", Quantity: 1},
					{OrderID: 1, PatientName: "Jan Kowalski", MedicineName: "Amoxicillin", Quantity: 3},
				}, nil)
			},
			wantLen: 2,
		},
		{
			name: "empty result is an empty slice, not nil",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().ListSummaries(gomock.Any()).Return([]domain.OrderSummary{}, nil)
			},
			wantLen: 0,
		},
		{
			name: "repository error propagates",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.EXPECT().ListSummaries(gomock.Any()).Return(nil, errors.New("query failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockOrderRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewOrderService(repo, nil, helpers.TestLogger())

			summaries, err := svc.ListOrders(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, summaries)
			assert.Len(t, summaries, tt.wantLen)
		})
	}
}
