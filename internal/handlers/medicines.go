// internal/handlers/medicines.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
)

// MedicineHandler handles medicine catalog HTTP requests
type MedicineHandler struct {
	service ports.MedicineService
	logger  *slog.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(service ports.MedicineService, logger *slog.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "medicine")),
	}
}

// MedicineRequest represents the request body for creating or updating a medicine
type MedicineRequest struct {
	Name         string          `json:"name"`
	GenericName  string          `json:"generic_name,omitempty"`
	Category     string          `json:"category,omitempty"`
	DosageForm   string          `json:"dosage_form,omitempty"`
	Strength     string          `json:"strength,omitempty"`
	Manufacturer string          `json:"manufacturer,omitempty"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	RequiresRx   bool            `json:"requires_prescription"`
	Notes        string          `json:"notes,omitempty"`
}

// ToDomain converts the request to a domain medicine
func (req *MedicineRequest) ToDomain() *domain.Medicine {
	return &domain.Medicine{
		Name:         req.Name,
		GenericName:  req.GenericName,
		Category:     domain.MedicineCategory(req.Category),
		DosageForm:   domain.DosageForm(req.DosageForm),
		Strength:     req.Strength,
		Manufacturer: req.Manufacturer,
		SupplierID:   req.SupplierID,
		UnitPrice:    req.UnitPrice,
		RequiresRx:   req.RequiresRx,
		Notes:        req.Notes,
	}
}

// GetMedicine handles GET /api/v1/medicines/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	med, err := h.service.GetByID(ctx, medicineID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Medicine not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get medicine",
			slog.Int64("medicine_id", medicineID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve medicine")
		return
	}

	h.respondJSON(w, http.StatusOK, med)
}

// ListMedicines handles GET /api/v1/medicines
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.List(ctx, h.parseListParams(r))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list medicines",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list medicines")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreateMedicine handles POST /api/v1/medicines
func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	med := req.ToDomain()
	if err := h.service.SaveMedicine(ctx, med); err != nil {
		h.handleWriteError(w, r, err, "create")
		return
	}

	h.logger.InfoContext(ctx, "medicine created",
		slog.Int64("medicine_id", med.ID),
		slog.String("name", med.Name))

	h.respondJSON(w, http.StatusCreated, med)
}

// UpdateMedicine handles PUT /api/v1/medicines/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	var req MedicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	med := req.ToDomain()
	if err := h.service.UpdateMedicine(ctx, medicineID, med); err != nil {
		h.handleWriteError(w, r, err, "update")
		return
	}

	h.respondJSON(w, http.StatusOK, med)
}

// DeleteMedicine handles DELETE /api/v1/medicines/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	medicineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid medicine ID format")
		return
	}

	if err := h.service.DeleteMedicine(ctx, medicineID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Medicine not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to delete medicine",
			slog.Int64("medicine_id", medicineID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete medicine")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Medicine deleted successfully",
		"medicine_id": medicineID,
	})
}

func (h *MedicineHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "Medicine not found")
	case errors.Is(err, db.ErrDuplicate):
		h.respondError(w, http.StatusConflict, "Medicine already exists")
	case errors.Is(err, db.ErrForeignKey):
		h.respondError(w, http.StatusBadRequest, "Referenced supplier does not exist")
	default:
		h.logger.ErrorContext(r.Context(), "medicine write failed",
			slog.String("op", op),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to "+op+" medicine")
	}
}

func (h *MedicineHandler) parseListParams(r *http.Request) ports.MedicineListParams {
	params := ports.MedicineListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "name",
		SortOrder: "asc",
	}

	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			params.PageSize = l
		}
	}

	params.Search = q.Get("search")
	params.Category = q.Get("category")
	params.DosageForm = q.Get("dosage_form")

	if supplier := q.Get("supplier_id"); supplier != "" {
		if id, err := strconv.ParseInt(supplier, 10, 64); err == nil {
			params.SupplierID = &id
		}
	}
	if rx := q.Get("requires_prescription"); rx != "" {
		if val, err := strconv.ParseBool(rx); err == nil {
			params.RequiresRx = &val
		}
	}

	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

func (h *MedicineHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *MedicineHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
