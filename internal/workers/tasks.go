// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names routed through the asynq mux
const (
	TypeGenerateSalesReport = "report:sales"
	TypeGenerateStockReport = "report:stock"
	TypeLowStockScan        = "inventory:low_stock_scan"
	TypeCleanupExpired      = "cleanup:expired_stock"
	TypeCleanupTempFiles    = "cleanup:temp_files"
)

// ReportPayload describes a report generation request
type ReportPayload struct {
	JobID string    `json:"job_id"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// NewSalesReportTask builds a sales report task covering [from, to)
func NewSalesReportTask(jobID string, from, to time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportPayload{JobID: jobID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeGenerateSalesReport, payload,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewStockReportTask builds a stock levels report task
func NewStockReportTask(jobID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ReportPayload{JobID: jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}
	return asynq.NewTask(TypeGenerateStockReport, payload,
		asynq.Queue("default"),
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewLowStockScanTask builds a periodic low stock scan task
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TypeLowStockScan, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
	)
}

// NewCleanupExpiredTask builds a task that purges expired stock batches
func NewCleanupExpiredTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupExpired, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
	)
}

// NewCleanupTempFilesTask builds a task that sweeps the temp directory
func NewCleanupTempFilesTask() *asynq.Task {
	return asynq.NewTask(TypeCleanupTempFiles, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
	)
}
