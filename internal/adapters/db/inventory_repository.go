// internal/adapters/db/inventory_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// inventoryRepository implements ports.InventoryRepository
type inventoryRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *Database, logger *slog.Logger) ports.InventoryRepository {
	return &inventoryRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "inventory")),
	}
}

// FindByMedicineID retrieves the stock record for one medicine
func (r *inventoryRepository) FindByMedicineID(ctx context.Context, medicineID int64) (*domain.InventoryRecord, error) {
	query := `
		SELECT medicine_id, quantity, reorder_level, batch_number, expires_at, updated_at
		FROM inventory
		WHERE medicine_id = $1`

	rec := &domain.InventoryRecord{}
	var batchNumber sql.NullString

	err := r.db.QueryRow(ctx, query, medicineID).Scan(
		&rec.MedicineID, &rec.Quantity, &rec.ReorderLevel,
		&batchNumber, &rec.ExpiresAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory for medicine %d: %w",
			medicineID, TranslateError(err))
	}
	rec.BatchNumber = batchNumber.String

	return rec, nil
}

// FindAll retrieves every stock record
func (r *inventoryRepository) FindAll(ctx context.Context) ([]domain.InventoryRecord, error) {
	query := `
		SELECT medicine_id, quantity, reorder_level, batch_number, expires_at, updated_at
		FROM inventory
		ORDER BY medicine_id`

	return r.queryRecords(ctx, query)
}

// FindLowStock retrieves records at or below their reorder level
func (r *inventoryRepository) FindLowStock(ctx context.Context) ([]domain.InventoryRecord, error) {
	query := `
		SELECT medicine_id, quantity, reorder_level, batch_number, expires_at, updated_at
		FROM inventory
		WHERE quantity <= reorder_level
		ORDER BY quantity ASC`

	return r.queryRecords(ctx, query)
}

func (r *inventoryRepository) queryRecords(ctx context.Context, query string) ([]domain.InventoryRecord, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", TranslateError(err))
	}
	defer rows.Close()

	records := make([]domain.InventoryRecord, 0)
	for rows.Next() {
		var rec domain.InventoryRecord
		var batchNumber sql.NullString

		if err := rows.Scan(
			&rec.MedicineID, &rec.Quantity, &rec.ReorderLevel,
			&batchNumber, &rec.ExpiresAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		rec.BatchNumber = batchNumber.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading inventory: %w", TranslateError(err))
	}

	return records, nil
}

// Upsert sets the absolute quantity and reorder level for a medicine.
// This is the admin restock path; the order workflow never calls it.
func (r *inventoryRepository) Upsert(ctx context.Context, rec *domain.InventoryRecord) error {
	query := `
		INSERT INTO inventory (medicine_id, quantity, reorder_level, batch_number, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (medicine_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			reorder_level = EXCLUDED.reorder_level,
			batch_number = EXCLUDED.batch_number,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at`

	rec.UpdatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		rec.MedicineID, rec.Quantity, rec.ReorderLevel,
		rec.BatchNumber, rec.ExpiresAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert inventory: %w", TranslateError(err))
	}

	r.logger.DebugContext(ctx, "inventory upserted",
		slog.Int64("medicine_id", rec.MedicineID),
		slog.Int("quantity", rec.Quantity))

	return nil
}

// DeleteExpired removes batches whose expiry has passed
func (r *inventoryRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM inventory WHERE expires_at IS NOT NULL AND expires_at < NOW()`

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired inventory: %w", TranslateError(err))
	}

	removed := tag.RowsAffected()
	if removed > 0 {
		r.logger.InfoContext(ctx, "expired inventory removed", slog.Int64("rows", removed))
	}

	return removed, nil
}
