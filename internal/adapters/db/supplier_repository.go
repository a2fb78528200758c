// internal/adapters/db/supplier_repository.go
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

// supplierRepository implements ports.SupplierRepository
type supplierRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *Database, logger *slog.Logger) ports.SupplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "supplier")),
	}
}

// Save inserts a new supplier
func (r *supplierRepository) Save(ctx context.Context, s *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (name, contact_person, phone, email, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING supplier_id`

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	err := r.db.QueryRow(ctx, query,
		s.Name, s.ContactPerson, s.Phone, s.Email, s.Address, now,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to save supplier: %w", TranslateError(err))
	}

	r.logger.DebugContext(ctx, "supplier saved",
		slog.Int64("supplier_id", s.ID),
		slog.String("name", s.Name))

	return nil
}

// FindByID retrieves a supplier by ID
func (r *supplierRepository) FindByID(ctx context.Context, supplierID int64) (*domain.Supplier, error) {
	query := `
		SELECT supplier_id, name, contact_person, phone, email, address, created_at, updated_at
		FROM suppliers
		WHERE supplier_id = $1`

	s := &domain.Supplier{}
	var contactPerson, phone, email, address sql.NullString

	err := r.db.QueryRow(ctx, query, supplierID).Scan(
		&s.ID, &s.Name, &contactPerson, &phone, &email, &address,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier %d: %w", supplierID, TranslateError(err))
	}

	s.ContactPerson = contactPerson.String
	s.Phone = phone.String
	s.Email = email.String
	s.Address = address.String

	return s, nil
}

// FindAll retrieves every supplier
func (r *supplierRepository) FindAll(ctx context.Context) ([]domain.Supplier, error) {
	query := `
		SELECT supplier_id, name, contact_person, phone, email, address, created_at, updated_at
		FROM suppliers
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", TranslateError(err))
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0)
	for rows.Next() {
		var s domain.Supplier
		var contactPerson, phone, email, address sql.NullString

		if err := rows.Scan(
			&s.ID, &s.Name, &contactPerson, &phone, &email, &address,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}

		s.ContactPerson = contactPerson.String
		s.Phone = phone.String
		s.Email = email.String
		s.Address = address.String

		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading suppliers: %w", TranslateError(err))
	}

	return suppliers, nil
}
