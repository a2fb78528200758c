// internal/handlers/suppliers.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// SupplierHandler handles supplier HTTP requests
type SupplierHandler struct {
	repo   ports.SupplierRepository
	logger *slog.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(repo ports.SupplierRepository, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{
		repo:   repo,
		logger: logger.With(slog.String("handler", "supplier")),
	}
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	suppliers, err := h.repo.FindAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list suppliers",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list suppliers")
		return
	}

	h.respondJSON(w, http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/v1/suppliers/{id}
func (h *SupplierHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	supplierID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	supplier, err := h.repo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Supplier not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get supplier",
			slog.Int64("supplier_id", supplierID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve supplier")
		return
	}

	h.respondJSON(w, http.StatusOK, supplier)
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := supplier.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Save(ctx, &supplier); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			h.respondError(w, http.StatusConflict, "Supplier already exists")
			return
		}

		h.logger.ErrorContext(ctx, "failed to create supplier",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create supplier")
		return
	}

	h.logger.InfoContext(ctx, "supplier created",
		slog.Int64("supplier_id", supplier.ID),
		slog.String("name", supplier.Name))

	h.respondJSON(w, http.StatusCreated, supplier)
}

func (h *SupplierHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *SupplierHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
