// internal/handlers/inventory.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
)

// InventoryHandler handles stock level HTTP requests
type InventoryHandler struct {
	service ports.InventoryService
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service ports.InventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "inventory")),
	}
}

// SetStockRequest represents the request body for setting stock levels
type SetStockRequest struct {
	Quantity     int        `json:"quantity"`
	ReorderLevel int        `json:"reorder_level"`
	BatchNumber  string     `json:"batch_number,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// ListInventory handles GET /api/v1/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list inventory",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list inventory")
		return
	}

	h.respondJSON(w, http.StatusOK, records)
}

// ListLowStock handles GET /api/v1/inventory/low-stock
func (h *InventoryHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.service.ListLowStock(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list low stock",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list low stock")
		return
	}

	h.respondJSON(w, http.StatusOK, records)
}

// GetStock handles GET /api/v1/inventory/{medicineID}
func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicineID, err := strconv.ParseInt(r.PathValue("medicineID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	record, err := h.service.GetByMedicineID(ctx, medicineID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "No stock record for medicine")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get stock record",
			slog.Int64("medicine_id", medicineID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve stock record")
		return
	}

	h.respondJSON(w, http.StatusOK, record)
}

// SetStock handles PUT /api/v1/inventory/{medicineID}. This is the admin
// restock path; order placement adjusts stock inside its own transaction.
func (h *InventoryHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicineID, err := strconv.ParseInt(r.PathValue("medicineID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	var req SetStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record := &domain.InventoryRecord{
		MedicineID:   medicineID,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		BatchNumber:  req.BatchNumber,
		ExpiresAt:    req.ExpiresAt,
	}

	if err := h.service.SetStock(ctx, record); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrForeignKey):
			h.respondError(w, http.StatusBadRequest, "Referenced medicine does not exist")
		case errors.Is(err, db.ErrCheckViolated):
			h.respondError(w, http.StatusBadRequest, "Quantity cannot be negative")
		default:
			h.logger.ErrorContext(ctx, "failed to set stock",
				slog.Int64("medicine_id", medicineID),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to set stock")
		}
		return
	}

	h.logger.InfoContext(ctx, "stock level set",
		slog.Int64("medicine_id", medicineID),
		slog.Int("quantity", req.Quantity))

	h.respondJSON(w, http.StatusOK, record)
}

func (h *InventoryHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InventoryHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
