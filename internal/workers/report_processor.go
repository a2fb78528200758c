// internal/workers/report_processor.go
package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/adapters/storage"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// ReportProcessor generates Excel reports and stores them in the archive
type ReportProcessor struct {
	db      *db.Database
	archive storage.ReportArchive
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(database *db.Database, archive storage.ReportArchive, cache ports.CacheRepository, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		db:      database,
		archive: archive,
		cache:   cache,
		logger:  logger.With(slog.String("processor", "report")),
	}
}

type salesReportRow struct {
	OrderID      int64
	OrderDate    time.Time
	PatientName  string
	MedicineName string
	Quantity     int
	UnitPrice    decimal.Decimal
	LineTotal    decimal.Decimal
}

// GenerateSalesReport builds a per-line sales workbook for the payload's
// date range and uploads it to the archive. The resulting key is cached
// under the job ID so the API can hand out a download link.
func (p *ReportProcessor) GenerateSalesReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "generating sales report",
		slog.String("job_id", payload.JobID),
		slog.Time("from", payload.From),
		slog.Time("to", payload.To))

	rows, err := p.loadSalesRows(ctx, payload.From, payload.To)
	if err != nil {
		return err
	}

	data, err := p.buildSalesWorkbook(rows, payload.From, payload.To)
	if err != nil {
		return err
	}

	key, err := p.archive.StoreReport(ctx, "sales", data)
	if err != nil {
		return fmt.Errorf("failed to archive sales report: %w", err)
	}

	return p.publishResult(ctx, payload.JobID, key, len(rows))
}

// GenerateStockReport builds a current stock levels workbook
func (p *ReportProcessor) GenerateStockReport(ctx context.Context, t *asynq.Task) error {
	var payload ReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "generating stock report",
		slog.String("job_id", payload.JobID))

	query := `
		SELECT m.medicine_id, m.name, m.category, i.quantity, i.reorder_level,
		       i.batch_number, i.expires_at
		FROM inventory i
		JOIN medicines m ON m.medicine_id = i.medicine_id
		WHERE m.deleted_at IS NULL
		ORDER BY m.name`

	dbRows, err := p.db.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer dbRows.Close()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock Levels")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, []string{
		"Medicine ID", "Name", "Category", "Quantity",
		"Reorder Level", "Batch", "Expires",
	})

	count := 0
	for dbRows.Next() {
		var (
			medicineID   int64
			name         string
			category     string
			quantity     int
			reorderLevel int
			batchNumber  *string
			expiresAt    *time.Time
		)
		if err := dbRows.Scan(&medicineID, &name, &category, &quantity,
			&reorderLevel, &batchNumber, &expiresAt); err != nil {
			return fmt.Errorf("failed to scan stock row: %w", err)
		}

		row := sheet.AddRow()
		row.AddCell().SetInt64(medicineID)
		row.AddCell().Value = name
		row.AddCell().Value = category
		row.AddCell().SetInt(quantity)
		row.AddCell().SetInt(reorderLevel)
		if batchNumber != nil {
			row.AddCell().Value = *batchNumber
		} else {
			row.AddCell()
		}
		if expiresAt != nil {
			row.AddCell().Value = expiresAt.Format("2006-01-02")
		} else {
			row.AddCell()
		}
		count++
	}
	if err := dbRows.Err(); err != nil {
		return fmt.Errorf("failed to read stock rows: %w", err)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	key, err := p.archive.StoreReport(ctx, "stock", buffer.Bytes())
	if err != nil {
		return fmt.Errorf("failed to archive stock report: %w", err)
	}

	return p.publishResult(ctx, payload.JobID, key, count)
}

func (p *ReportProcessor) loadSalesRows(ctx context.Context, from, to time.Time) ([]salesReportRow, error) {
	query := `
		SELECT o.order_id, o.order_date,
		       p.first_name || ' ' || p.last_name AS patient_name,
		       m.name AS medicine_name,
		       oi.quantity, m.unit_price
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.order_id
		JOIN patients p ON p.patient_id = o.patient_id
		JOIN medicines m ON m.medicine_id = oi.medicine_id
		WHERE o.order_date >= $1 AND o.order_date < $2
		ORDER BY o.order_date, o.order_id, oi.item_id`

	dbRows, err := p.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer dbRows.Close()

	var rows []salesReportRow
	for dbRows.Next() {
		var r salesReportRow
		if err := dbRows.Scan(&r.OrderID, &r.OrderDate, &r.PatientName,
			&r.MedicineName, &r.Quantity, &r.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		r.LineTotal = r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
		rows = append(rows, r)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales rows: %w", err)
	}

	return rows, nil
}

func (p *ReportProcessor) buildSalesWorkbook(rows []salesReportRow, from, to time.Time) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sales")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	addHeaderRow(sheet, []string{
		"Order ID", "Order Date", "Patient", "Medicine",
		"Quantity", "Unit Price", "Line Total",
	})

	total := decimal.Zero
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetInt64(r.OrderID)
		row.AddCell().Value = r.OrderDate.Format("2006-01-02")
		row.AddCell().Value = r.PatientName
		row.AddCell().Value = r.MedicineName
		row.AddCell().SetInt(r.Quantity)
		row.AddCell().Value = r.UnitPrice.StringFixed(2)
		row.AddCell().Value = r.LineTotal.StringFixed(2)
		total = total.Add(r.LineTotal)
	}

	summaryRow := sheet.AddRow()
	summaryRow.AddCell()
	cell := summaryRow.AddCell()
	cell.Value = fmt.Sprintf("Total (%s to %s)", from.Format("2006-01-02"), to.Format("2006-01-02"))
	for i := 0; i < 4; i++ {
		summaryRow.AddCell()
	}
	summaryRow.AddCell().Value = total.StringFixed(2)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buffer.Bytes(), nil
}

func (p *ReportProcessor) publishResult(ctx context.Context, jobID, key string, rowCount int) error {
	if p.cache != nil {
		cacheKey := redis_a.BuildKey(redis_a.PrefixReport, jobID)
		if err := p.cache.SetWithTTL(ctx, cacheKey, key, 24*time.Hour); err != nil {
			p.logger.WarnContext(ctx, "failed to cache report key",
				slog.String("job_id", jobID),
				slog.Any("error", err))
		}
	}

	p.logger.InfoContext(ctx, "report generated",
		slog.String("job_id", jobID),
		slog.String("key", key),
		slog.Int("rows", rowCount))

	return nil
}

func addHeaderRow(sheet *xlsx.Sheet, headers []string) {
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}
	for i := range headers {
		sheet.SetColWidth(i, i, 18)
	}
}
