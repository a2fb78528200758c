// internal/adapters/db/medicine_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// medicineRepository implements ports.MedicineRepository
type medicineRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *Database, logger *slog.Logger) ports.MedicineRepository {
	return &medicineRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "medicine")),
	}
}

// Save inserts a new catalog entry
func (r *medicineRepository) Save(ctx context.Context, med *domain.Medicine) error {
	query := `
		INSERT INTO medicines (
			name, generic_name, category, dosage_form, strength,
			manufacturer, supplier_id, unit_price, requires_prescription,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING medicine_id`

	med.PrepareForStorage()

	err := r.db.QueryRow(ctx, query,
		med.Name, med.GenericName, med.Category, med.DosageForm, med.Strength,
		med.Manufacturer, med.SupplierID, med.UnitPrice, med.RequiresRx,
		med.Notes, med.CreatedAt, med.UpdatedAt,
	).Scan(&med.ID)
	if err != nil {
		return fmt.Errorf("failed to save medicine: %w", TranslateError(err))
	}

	r.logger.DebugContext(ctx, "medicine saved",
		slog.Int64("medicine_id", med.ID),
		slog.String("name", med.Name))

	return nil
}

// Update modifies an existing catalog entry
func (r *medicineRepository) Update(ctx context.Context, med *domain.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, generic_name = $3, category = $4, dosage_form = $5,
			strength = $6, manufacturer = $7, supplier_id = $8,
			unit_price = $9, requires_prescription = $10, notes = $11,
			updated_at = $12
		WHERE medicine_id = $1 AND deleted_at IS NULL`

	med.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		med.ID, med.Name, med.GenericName, med.Category, med.DosageForm,
		med.Strength, med.Manufacturer, med.SupplierID,
		med.UnitPrice, med.RequiresRx, med.Notes, med.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medicine %d: %w", med.ID, ErrNotFound)
	}

	r.logger.DebugContext(ctx, "medicine updated", slog.Int64("medicine_id", med.ID))

	return nil
}

// FindByID retrieves a medicine by ID
func (r *medicineRepository) FindByID(ctx context.Context, medicineID int64) (*domain.Medicine, error) {
	query := `
		SELECT medicine_id, name, generic_name, category, dosage_form,
		       strength, manufacturer, supplier_id, unit_price,
		       requires_prescription, notes, created_at, updated_at
		FROM medicines
		WHERE medicine_id = $1 AND deleted_at IS NULL`

	med := &domain.Medicine{}
	var genericName, strength, manufacturer, notes sql.NullString

	err := r.db.QueryRow(ctx, query, medicineID).Scan(
		&med.ID, &med.Name, &genericName, &med.Category, &med.DosageForm,
		&strength, &manufacturer, &med.SupplierID, &med.UnitPrice,
		&med.RequiresRx, &notes, &med.CreatedAt, &med.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find medicine %d: %w", medicineID, TranslateError(err))
	}

	med.GenericName = genericName.String
	med.Strength = strength.String
	med.Manufacturer = manufacturer.String
	med.Notes = notes.String

	return med, nil
}

// FindAll retrieves medicines with filtering and pagination
func (r *medicineRepository) FindAll(ctx context.Context, params ports.MedicineListParams) ([]*domain.Medicine, int64, error) {
	qb := squirrel.Select(
		"medicine_id", "name", "generic_name", "category", "dosage_form",
		"strength", "manufacturer", "supplier_id", "unit_price",
		"requires_prescription", "notes", "created_at", "updated_at",
	).From("medicines").
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"generic_name": pattern},
		})
	}
	if params.Category != "" {
		qb = qb.Where(squirrel.Eq{"category": params.Category})
	}
	if params.DosageForm != "" {
		qb = qb.Where(squirrel.Eq{"dosage_form": params.DosageForm})
	}
	if params.SupplierID != nil {
		qb = qb.Where(squirrel.Eq{"supplier_id": *params.SupplierID})
	}
	if params.RequiresRx != nil {
		qb = qb.Where(squirrel.Eq{"requires_prescription": *params.RequiresRx})
	}

	// Count total before pagination
	countQb := qb.Column("COUNT(*) OVER()").Limit(1)
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount)
	if err != nil && err != pgx.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to count medicines: %w", TranslateError(err))
	}

	orderBy := "name ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		switch params.SortBy {
		case "price":
			orderBy = fmt.Sprintf("unit_price %s", direction)
		case "category":
			orderBy = fmt.Sprintf("category %s, name ASC", direction)
		case "updated":
			orderBy = fmt.Sprintf("updated_at %s", direction)
		default:
			orderBy = fmt.Sprintf("name %s", direction)
		}
	}
	qb = qb.OrderBy(orderBy)

	if params.PageSize > 0 {
		qb = qb.Limit(uint64(params.PageSize))
		if params.Page > 1 {
			qb = qb.Offset(uint64((params.Page - 1) * params.PageSize))
		}
	}

	listSQL, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query medicines: %w", TranslateError(err))
	}
	defer rows.Close()

	var meds []*domain.Medicine
	for rows.Next() {
		med := &domain.Medicine{}
		var genericName, strength, manufacturer, notes sql.NullString

		err := rows.Scan(
			&med.ID, &med.Name, &genericName, &med.Category, &med.DosageForm,
			&strength, &manufacturer, &med.SupplierID, &med.UnitPrice,
			&med.RequiresRx, &notes, &med.CreatedAt, &med.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan medicine: %w", err)
		}

		med.GenericName = genericName.String
		med.Strength = strength.String
		med.Manufacturer = manufacturer.String
		med.Notes = notes.String

		meds = append(meds, med)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading medicines: %w", TranslateError(err))
	}

	return meds, totalCount, nil
}

// SoftDelete marks a medicine as deleted without removing history
func (r *medicineRepository) SoftDelete(ctx context.Context, medicineID int64) error {
	query := `UPDATE medicines SET deleted_at = $2, updated_at = $2 WHERE medicine_id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, medicineID, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete medicine: %w", TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medicine %d: %w", medicineID, ErrNotFound)
	}

	r.logger.InfoContext(ctx, "medicine soft deleted", slog.Int64("medicine_id", medicineID))

	return nil
}

// Exists checks if a medicine exists
func (r *medicineRepository) Exists(ctx context.Context, medicineID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM medicines WHERE medicine_id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, medicineID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", TranslateError(err))
	}

	return exists, nil
}
