// internal/adapters/db/patient_repository.go
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

// patientRepository implements ports.PatientRepository
type patientRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *Database, logger *slog.Logger) ports.PatientRepository {
	return &patientRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "patient")),
	}
}

// Save registers a new patient
func (r *patientRepository) Save(ctx context.Context, p *domain.Patient) error {
	query := `
		INSERT INTO patients (
			first_name, last_name, date_of_birth, phone, email,
			address, allergies, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING patient_id`

	p.PrepareForStorage()

	err := r.db.QueryRow(ctx, query,
		p.FirstName, p.LastName, p.DateOfBirth, p.Phone, p.Email,
		p.Address, p.Allergies, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to save patient: %w", TranslateError(err))
	}

	r.logger.DebugContext(ctx, "patient saved", slog.Int64("patient_id", p.ID))

	return nil
}

// Update modifies an existing patient
func (r *patientRepository) Update(ctx context.Context, p *domain.Patient) error {
	query := `
		UPDATE patients SET
			first_name = $2, last_name = $3, date_of_birth = $4,
			phone = $5, email = $6, address = $7, allergies = $8,
			updated_at = $9
		WHERE patient_id = $1 AND deleted_at IS NULL`

	p.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		p.ID, p.FirstName, p.LastName, p.DateOfBirth,
		p.Phone, p.Email, p.Address, p.Allergies, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %d: %w", p.ID, ErrNotFound)
	}

	return nil
}

// FindByID retrieves a patient by ID
func (r *patientRepository) FindByID(ctx context.Context, patientID int64) (*domain.Patient, error) {
	query := `
		SELECT patient_id, first_name, last_name, date_of_birth, phone,
		       email, address, allergies, created_at, updated_at
		FROM patients
		WHERE patient_id = $1 AND deleted_at IS NULL`

	p := &domain.Patient{}
	var phone, email, address, allergies sql.NullString

	err := r.db.QueryRow(ctx, query, patientID).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &phone,
		&email, &address, &allergies, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find patient %d: %w", patientID, TranslateError(err))
	}

	p.Phone = phone.String
	p.Email = email.String
	p.Address = address.String
	p.Allergies = allergies.String

	return p, nil
}

// FindAll retrieves patients with filtering and pagination
func (r *patientRepository) FindAll(ctx context.Context, params ports.PatientListParams) ([]*domain.Patient, int64, error) {
	qb := squirrel.Select(
		"patient_id", "first_name", "last_name", "date_of_birth", "phone",
		"email", "address", "allergies", "created_at", "updated_at",
	).From("patients").
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
		})
	}

	countQb := qb.Column("COUNT(*) OVER()").Limit(1)
	countSQL, countArgs, err := countQb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	err = r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount)
	if err != nil && err != pgx.ErrNoRows {
		return nil, 0, fmt.Errorf("failed to count patients: %w", TranslateError(err))
	}

	orderBy := "last_name ASC, first_name ASC"
	if params.SortBy != "" {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		switch params.SortBy {
		case "created":
			orderBy = fmt.Sprintf("created_at %s", direction)
		case "name":
			orderBy = fmt.Sprintf("last_name %s, first_name %s", direction, direction)
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
		return nil, 0, fmt.Errorf("failed to query patients: %w", TranslateError(err))
	}
	defer rows.Close()

	var patients []*domain.Patient
	for rows.Next() {
		p := &domain.Patient{}
		var phone, email, address, allergies sql.NullString

		if err := rows.Scan(
			&p.ID, &p.FirstName, &p.LastName, &p.DateOfBirth, &phone,
			&email, &address, &allergies, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}

		p.Phone = phone.String
		p.Email = email.String
		p.Address = address.String
		p.Allergies = allergies.String

		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading patients: %w", TranslateError(err))
	}

	return patients, totalCount, nil
}

// SoftDelete marks a patient as deleted
func (r *patientRepository) SoftDelete(ctx context.Context, patientID int64) error {
	query := `UPDATE patients SET deleted_at = $2, updated_at = $2 WHERE patient_id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, patientID, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete patient: %w", TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("patient %d: %w", patientID, ErrNotFound)
	}

	r.logger.InfoContext(ctx, "patient soft deleted", slog.Int64("patient_id", patientID))

	return nil
}
