// internal/handlers/prescriptions.go
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
)

// PrescriptionHandler handles prescription HTTP requests
type PrescriptionHandler struct {
	repo   ports.PrescriptionRepository
	logger *slog.Logger
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(repo ports.PrescriptionRepository, logger *slog.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{
		repo:   repo,
		logger: logger.With(slog.String("handler", "prescription")),
	}
}

// GetPrescription handles GET /api/v1/prescriptions/{id}
func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prescriptionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid prescription ID format")
		return
	}

	prescription, err := h.repo.FindByID(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Prescription not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to get prescription",
			slog.Int64("prescription_id", prescriptionID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve prescription")
		return
	}

	h.respondJSON(w, http.StatusOK, prescription)
}

// ListPrescriptions handles GET /api/v1/prescriptions?patient_id=
func (h *PrescriptionHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err := strconv.ParseInt(r.URL.Query().Get("patient_id"), 10, 64)
	if err != nil || patientID <= 0 {
		h.respondError(w, http.StatusBadRequest, "patient_id query parameter is required")
		return
	}

	prescriptions, err := h.repo.FindByPatientID(ctx, patientID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list prescriptions",
			slog.Int64("patient_id", patientID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list prescriptions")
		return
	}

	h.respondJSON(w, http.StatusOK, prescriptions)
}

// CreatePrescription handles POST /api/v1/prescriptions
func (h *PrescriptionHandler) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var prescription domain.Prescription
	if err := json.NewDecoder(r.Body).Decode(&prescription); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := prescription.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if prescription.IssuedAt.IsZero() {
		prescription.IssuedAt = time.Now().UTC()
	}

	if err := h.repo.Save(ctx, &prescription); err != nil {
		if errors.Is(err, db.ErrForeignKey) {
			h.respondError(w, http.StatusBadRequest, "Referenced patient or medicine does not exist")
			return
		}

		h.logger.ErrorContext(ctx, "failed to create prescription",
			slog.Int64("patient_id", prescription.PatientID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to create prescription")
		return
	}

	h.logger.InfoContext(ctx, "prescription created",
		slog.Int64("prescription_id", prescription.ID),
		slog.Int64("patient_id", prescription.PatientID),
		slog.Int("lines", len(prescription.Lines)))

	h.respondJSON(w, http.StatusCreated, prescription)
}

func (h *PrescriptionHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *PrescriptionHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
