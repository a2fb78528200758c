// internal/workers/lowstock_processor.go
package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/pharmadesk/pharmadesk-be/internal/adapters/redis_adapter"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// LowStockProcessor scans stock levels and caches the reorder list
type LowStockProcessor struct {
	inventory ports.InventoryRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewLowStockProcessor creates a new low stock processor
func NewLowStockProcessor(inventory ports.InventoryRepository, cache ports.CacheRepository, logger *slog.Logger) *LowStockProcessor {
	return &LowStockProcessor{
		inventory: inventory,
		cache:     cache,
		logger:    logger.With(slog.String("processor", "low_stock")),
	}
}

// ScanLowStock finds medicines at or below their reorder level and
// refreshes the cached reorder list the dashboard reads from.
func (p *LowStockProcessor) ScanLowStock(ctx context.Context, t *asynq.Task) error {
	records, err := p.inventory.FindLowStock(ctx)
	if err != nil {
		return err
	}

	if p.cache != nil {
		key := redis_a.BuildKey(redis_a.PrefixDashboard, "low_stock")
		if err := p.cache.SetWithTTL(ctx, key, records, time.Hour); err != nil {
			p.logger.WarnContext(ctx, "failed to cache low stock list",
				slog.Any("error", err))
		}
	}

	for _, rec := range records {
		p.logger.WarnContext(ctx, "medicine below reorder level",
			slog.Int64("medicine_id", rec.MedicineID),
			slog.Int("quantity", rec.Quantity),
			slog.Int("reorder_level", rec.ReorderLevel))
	}

	p.logger.InfoContext(ctx, "low stock scan completed",
		slog.Int("flagged", len(records)))

	return nil
}
