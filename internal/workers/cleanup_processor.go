// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
	"github.com/pharmadesk/pharmadesk-be/internal/pkg/config"
)

// CleanupProcessor handles periodic housekeeping tasks
type CleanupProcessor struct {
	inventory ports.InventoryRepository
	config    *config.Config
	logger    *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(inventory ports.InventoryRepository, config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		inventory: inventory,
		config:    config,
		logger:    logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupExpiredStock removes inventory batches past their expiry date
func (p *CleanupProcessor) CleanupExpiredStock(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "purging expired stock")

	removed, err := p.inventory.DeleteExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired stock: %w", err)
	}

	p.logger.InfoContext(ctx, "expired stock purged",
		slog.Int64("rows_deleted", removed))

	return nil
}

// CleanupTempFiles removes stale files from the report temp directory
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "cleaning up temp files")

	tempDir := p.config.Reports.TempDir
	maxAge := 24 * time.Hour

	var deletedCount int
	err := filepath.Walk(tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.Any("error", err))
			} else {
				deletedCount++
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
