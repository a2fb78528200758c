// internal/adapters/db/staff_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// staffRepository implements ports.StaffRepository
type staffRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *Database, logger *slog.Logger) ports.StaffRepository {
	return &staffRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "staff")),
	}
}

// Save inserts a new staff account
func (r *staffRepository) Save(ctx context.Context, s *domain.Staff) error {
	query := `
		INSERT INTO staff (username, password_hash, full_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING employee_id`

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	err := r.db.QueryRow(ctx, query,
		s.Username, s.PasswordHash, s.FullName, s.Role, s.Active, now,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to save staff account: %w", TranslateError(err))
	}

	r.logger.InfoContext(ctx, "staff account created",
		slog.Int64("employee_id", s.ID),
		slog.String("role", string(s.Role)))

	return nil
}

// FindByUsername retrieves a staff account for login
func (r *staffRepository) FindByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	query := `
		SELECT employee_id, username, password_hash, full_name, role, active, created_at, updated_at
		FROM staff
		WHERE username = $1`

	s := &domain.Staff{}
	err := r.db.QueryRow(ctx, query, username).Scan(
		&s.ID, &s.Username, &s.PasswordHash, &s.FullName,
		&s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff %q: %w", username, TranslateError(err))
	}

	return s, nil
}

// FindByID retrieves a staff account by ID
func (r *staffRepository) FindByID(ctx context.Context, staffID int64) (*domain.Staff, error) {
	query := `
		SELECT employee_id, username, password_hash, full_name, role, active, created_at, updated_at
		FROM staff
		WHERE employee_id = $1`

	s := &domain.Staff{}
	err := r.db.QueryRow(ctx, query, staffID).Scan(
		&s.ID, &s.Username, &s.PasswordHash, &s.FullName,
		&s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff %d: %w", staffID, TranslateError(err))
	}

	return s, nil
}
