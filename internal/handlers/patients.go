// internal/handlers/patients.go
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

// PatientHandler handles patient HTTP requests
type PatientHandler struct {
	service ports.PatientService
	logger  *slog.Logger
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service ports.PatientService, logger *slog.Logger) *PatientHandler {
	return &PatientHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "patient")),
	}
}

// PatientRequest represents the request body for creating or updating a patient
type PatientRequest struct {
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Address     string     `json:"address,omitempty"`
	Allergies   string     `json:"allergies,omitempty"`
}

// ToDomain converts the request to a domain patient
func (req *PatientRequest) ToDomain() *domain.Patient {
	return &domain.Patient{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Allergies:   req.Allergies,
	}
}

// GetPatient handles GET /api/v1/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	patient, err := h.service.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Patient not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get patient",
			slog.Int64("patient_id", patientID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve patient")
		return
	}

	h.respondJSON(w, http.StatusOK, patient)
}

// ListPatients handles GET /api/v1/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := ports.PatientListParams{
		Page:     1,
		PageSize: 50,
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
	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list patients",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list patients")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CreatePatient handles POST /api/v1/patients
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient := req.ToDomain()
	if err := h.service.SavePatient(ctx, patient); err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.ErrorContext(ctx, "failed to create patient",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create patient")
		return
	}

	h.logger.InfoContext(ctx, "patient created",
		slog.Int64("patient_id", patient.ID))

	h.respondJSON(w, http.StatusCreated, patient)
}

// UpdatePatient handles PUT /api/v1/patients/{id}
func (h *PatientHandler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	patient := req.ToDomain()
	if err := h.service.UpdatePatient(ctx, patientID, patient); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrNotFound):
			h.respondError(w, http.StatusNotFound, "Patient not found")
		default:
			h.logger.ErrorContext(ctx, "failed to update patient",
				slog.Int64("patient_id", patientID),
				slog.String("error", err.Error()))
			h.respondError(w, http.StatusInternalServerError, "Failed to update patient")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, patient)
}

// DeletePatient handles DELETE /api/v1/patients/{id}
func (h *PatientHandler) DeletePatient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid patient ID format")
		return
	}

	if err := h.service.DeletePatient(ctx, patientID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Patient not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to delete patient",
			slog.Int64("patient_id", patientID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to delete patient")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Patient deleted successfully",
		"patient_id": patientID,
	})
}

func (h *PatientHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *PatientHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
