// internal/handlers/orders_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/internal/handlers"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

func TestOrderHandler_PlaceOrder(t *testing.T) {
	validBody := `{
		"patient_id": 7,
		"items": [{"medicine_id": 3, "quantity": 2}],
		"updateInventory": true
	}`

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockOrderService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "successfully_places_order",
			body: validBody,
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), true).
					DoAndReturn(func(_ interface{}, order *domain.Order, _ bool) (*ports.PlaceOrderResult, error) {
						assert.Equal(t, int64(7), order.PatientID)
						require.Len(t, order.Lines, 1)
						assert.Equal(t, int64(3), order.Lines[0].MedicineID)
						assert.Equal(t, 2, order.Lines[0].Quantity)
						return &ports.PlaceOrderResult{OrderID: 42}, nil
					})
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, true, response["success"])
				assert.Equal(t, float64(42), response["orderId"])
				assert.Equal(t, "Order placed successfully", response["message"])
			},
		},
		{
			name: "reports_skipped_decrements_in_message",
			body: validBody,
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), true).
					Return(&ports.PlaceOrderResult{OrderID: 43, SkippedDecrements: 1}, nil)
			},
			expectedStatus: http.StatusCreated,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]interface{}
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, true, response["success"])
				assert.Contains(t, response["message"], "1 item(s) had insufficient stock")
			},
		},
		{
			name:           "malformed_json_body",
			body:           `{"patient_id": `,
			setupMocks:     func(m *mocks.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid request body", response["error"])
			},
		},
		{
			name: "validation_failure_returns_400",
			body: `{"patient_id": 0, "items": []}`,
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), false).
					Return(nil, fmt.Errorf("%w: patient_id is required", services.ErrInvalidRequest))
			},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Contains(t, response["error"], "patient_id is required")
			},
		},
		{
			name: "transaction_failure_returns_500_with_details",
			body: validBody,
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), true).
					Return(nil, fmt.Errorf("%w: %w", services.ErrOrderCreationFailed, db.ErrForeignKey))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to place order", response["error"])
				assert.NotEmpty(t, response["details"])
			},
		},
		{
			name: "pool_exhaustion_returns_503",
			body: validBody,
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().
					PlaceOrder(gomock.Any(), gomock.Any(), true).
					Return(nil, fmt.Errorf("placing order: %w", db.ErrConnExhausted))
			},
			expectedStatus: http.StatusServiceUnavailable,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Database connection pool exhausted", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockOrderService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/orders", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.PlaceOrder(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestOrderHandler_ListOrders(t *testing.T) {
	orderDate := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	lastLog := time.Date(2025, 6, 1, 10, 30, 5, 0, time.UTC)
	summaries := []domain.OrderSummary{
		{OrderID: 1, PatientID: 7, PatientName: "Ana Silva", MedicineID: 3, MedicineName: "Amoxicillin 500mg", Quantity: 2, OrderDate: orderDate, LastLogDate: &lastLog},
		{OrderID: 1, PatientID: 7, PatientName: "Ana Silva", MedicineID: 9, MedicineName: "Ibuprofen 200mg", Quantity: 1, OrderDate: orderDate, LastLogDate: &lastLog},
	}

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockOrderService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "returns_order_summaries",
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return(summaries, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response []domain.OrderSummary
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response, 2)
				assert.Equal(t, "Ana Silva", response[0].PatientName)
				assert.Equal(t, "Ibuprofen 200mg", response[1].MedicineName)
				require.NotNil(t, response[0].LastLogDate)
				assert.True(t, lastLog.Equal(*response[0].LastLogDate))

				// The log-date column is present even when the patient
				// has no log rows.
				var raw []map[string]json.RawMessage
				require.NoError(t, json.Unmarshal(body, &raw))
				assert.Contains(t, raw[0], "last_log_date")
			},
		},
		{
			name: "empty_list_encodes_as_array",
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return([]domain.OrderSummary{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "[]", string(bytes.TrimSpace(body)))
			},
		},
		{
			name: "service_failure_returns_500",
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().ListOrders(gomock.Any()).Return(nil, fmt.Errorf("query failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Failed to list orders", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockOrderService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/orders", nil)
			w := httptest.NewRecorder()

			handler.ListOrders(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}

func TestOrderHandler_GetOrder(t *testing.T) {
	testOrder := helpers.CreateTestOrder(func(o *domain.Order) {
		o.ID = 42
	})

	tests := []struct {
		name           string
		orderID        string
		setupMocks     func(*mocks.MockOrderService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:    "successfully_retrieves_order",
			orderID: "42",
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().GetOrder(gomock.Any(), int64(42)).Return(testOrder, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Order
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, testOrder.ID, response.ID)
				assert.Equal(t, testOrder.PatientID, response.PatientID)
				assert.Len(t, response.Lines, len(testOrder.Lines))
			},
		},
		{
			name:           "invalid_id_format",
			orderID:        "not-a-number",
			setupMocks:     func(m *mocks.MockOrderService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Invalid order ID format", response["error"])
			},
		},
		{
			name:    "order_not_found",
			orderID: "999",
			setupMocks: func(m *mocks.MockOrderService) {
				m.EXPECT().GetOrder(gomock.Any(), int64(999)).
					Return(nil, fmt.Errorf("order 999: %w", db.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "Order not found", response["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockOrderService(ctrl)
			handler := handlers.NewOrderHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/orders/"+tt.orderID, nil)
			req.SetPathValue("id", tt.orderID)
			w := httptest.NewRecorder()

			handler.GetOrder(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validateBody(t, w.Body.Bytes())
		})
	}
}
