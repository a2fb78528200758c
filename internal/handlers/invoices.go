// internal/handlers/invoices.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// InvoiceHandler serves the billing read model
type InvoiceHandler struct {
	repo   ports.InvoiceRepository
	logger *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(repo ports.InvoiceRepository, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		repo:   repo,
		logger: logger.With(slog.String("handler", "invoice")),
	}
}

// ListInvoices handles GET /api/v1/invoices
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	invoices, err := h.repo.ListAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list invoices",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to list invoices")
		return
	}

	h.respondJSON(w, http.StatusOK, invoices)
}

// GetInvoice handles GET /api/v1/invoices/{orderID}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, err := strconv.ParseInt(r.PathValue("orderID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid order ID format")
		return
	}

	invoice, err := h.repo.BuildForOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "Invoice not found")
			return
		}

		h.logger.ErrorContext(ctx, "failed to build invoice",
			slog.Int64("order_id", orderID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to build invoice")
		return
	}

	h.respondJSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *InvoiceHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
