// internal/handlers/reports.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/adapters/storage"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/workers"
)

// ReportHandler enqueues report generation and serves results
type ReportHandler struct {
	asynqClient *asynq.Client
	archive     storage.ReportArchive
	cache       ports.CacheRepository
	logger      *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(asynqClient *asynq.Client, archive storage.ReportArchive, cache ports.CacheRepository, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		asynqClient: asynqClient,
		archive:     archive,
		cache:       cache,
		logger:      logger.With(slog.String("handler", "report")),
	}
}

// SalesReportRequest represents the request body for a sales report
type SalesReportRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RequestSalesReport handles POST /api/v1/reports/sales
func (h *ReportHandler) RequestSalesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SalesReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.To.IsZero() {
		req.To = time.Now().UTC()
	}
	if req.From.IsZero() {
		req.From = req.To.AddDate(0, -1, 0)
	}
	if !req.From.Before(req.To) {
		h.respondError(w, http.StatusBadRequest, "from must be before to")
		return
	}

	jobID := uuid.New().String()

	task, err := workers.NewSalesReportTask(jobID, req.From, req.To)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report task",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to request report")
		return
	}

	info, err := h.asynqClient.Enqueue(task, asynq.Retention(24*time.Hour))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report task",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, "Report queue unavailable")
		return
	}

	h.logger.InfoContext(ctx, "sales report requested",
		slog.String("job_id", jobID),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Report generation started",
	})
}

// RequestStockReport handles POST /api/v1/reports/stock
func (h *ReportHandler) RequestStockReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobID := uuid.New().String()

	task, err := workers.NewStockReportTask(jobID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build report task",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to request report")
		return
	}

	if _, err := h.asynqClient.Enqueue(task, asynq.Retention(24*time.Hour)); err != nil {
		h.logger.ErrorContext(ctx, "failed to enqueue report task",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusServiceUnavailable, "Report queue unavailable")
		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  jobID,
		"status":  "queued",
		"message": "Report generation started",
	})
}

// ReportStatus handles GET /api/v1/reports/status/{jobId}. Once the worker
// has archived the workbook it caches the archive key under the job ID;
// until then the job is still pending.
func (h *ReportHandler) ReportStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := r.PathValue("jobId")

	if _, err := uuid.Parse(jobID); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var archiveKey string
	err := h.cache.Get(ctx, redis_a.BuildKey(redis_a.PrefixReport, jobID), &archiveKey)
	if err != nil {
		if errors.Is(err, redis_a.ErrCacheMiss) {
			h.respondJSON(w, http.StatusOK, map[string]interface{}{
				"job_id": jobID,
				"status": "pending",
			})
			return
		}

		h.logger.ErrorContext(ctx, "failed to look up report job",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to get report status")
		return
	}

	url, err := h.archive.PresignReport(ctx, archiveKey, 15*time.Minute)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to presign report",
			slog.String("job_id", jobID),
			slog.String("key", archiveKey),
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to generate download link")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":       jobID,
		"status":       "completed",
		"download_url": url,
		"expires_in":   "15m",
	})
}

func (h *ReportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
