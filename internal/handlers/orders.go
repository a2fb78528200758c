// internal/handlers/orders.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	service ports.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service ports.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "order")),
	}
}

// PlaceOrderRequest represents the request body for placing an order
type PlaceOrderRequest struct {
	PatientID       int64              `json:"patient_id"`
	SupplierID      *int64             `json:"supplier_id,omitempty"`
	EmployeeID      *int64             `json:"employee_id,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	UpdateInventory bool               `json:"updateInventory"`
}

// OrderItemRequest is one medicine+quantity entry in a placement request
type OrderItemRequest struct {
	MedicineID int64 `json:"medicine_id"`
	Quantity   int   `json:"quantity"`
}

// ToDomain converts the request to a domain order
func (req *PlaceOrderRequest) ToDomain() *domain.Order {
	order := &domain.Order{
		PatientID:  req.PatientID,
		SupplierID: req.SupplierID,
		EmployeeID: req.EmployeeID,
	}
	for _, item := range req.Items {
		order.Lines = append(order.Lines, domain.OrderLine{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
		})
	}
	return order
}

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.PlaceOrder(ctx, req.ToDomain(), req.UpdateInventory)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrConnExhausted):
			h.respondError(w, http.StatusServiceUnavailable, "Database connection pool exhausted")
		default:
			h.logger.ErrorContext(ctx, "order placement failed",
				slog.Int64("patient_id", req.PatientID),
				slog.String("error", err.Error()))
			h.respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Failed to place order",
				"details": err.Error(),
			})
		}
		return
	}

	message := "Order placed successfully"
	if result.SkippedDecrements > 0 {
		message = fmt.Sprintf("Order placed; %d item(s) had insufficient stock and were not decremented",
			result.SkippedDecrements)
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"orderId": result.OrderID,
		"message": message,
	})
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.service.ListOrders(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list orders",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list orders")
		return
	}

	h.respondJSON(w, http.StatusOK, summaries)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Order not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get order",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve order")
		return
	}

	h.respondJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *OrderHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
