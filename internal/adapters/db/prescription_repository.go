// internal/adapters/db/prescription_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/ports"
)

// prescriptionRepository implements ports.PrescriptionRepository
type prescriptionRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository(db *Database, logger *slog.Logger) ports.PrescriptionRepository {
	return &prescriptionRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "prescription")),
	}
}

// Save inserts the prescription header and all lines in one transaction
func (r *prescriptionRepository) Save(ctx context.Context, p *domain.Prescription) error {
	return r.db.Transaction(ctx, func(tx pgx.Tx) error {
		const headerQuery = `
			INSERT INTO prescriptions (patient_id, doctor_name, issued_at, notes, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING prescription_id`

		if p.IssuedAt.IsZero() {
			p.IssuedAt = time.Now()
		}
		p.CreatedAt = time.Now()

		err := tx.QueryRow(ctx, headerQuery,
			p.PatientID, p.DoctorName, p.IssuedAt, p.Notes, p.CreatedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert prescription: %w", TranslateError(err))
		}

		const lineQuery = `
			INSERT INTO prescription_items (prescription_id, medicine_id, dosage, quantity)
			VALUES ($1, $2, $3, $4)`

		batch := &pgx.Batch{}
		for i := range p.Lines {
			p.Lines[i].PrescriptionID = p.ID
			batch.Queue(lineQuery, p.ID, p.Lines[i].MedicineID, p.Lines[i].Dosage, p.Lines[i].Quantity)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				return fmt.Errorf("failed to insert prescription item %d: %w", i, TranslateError(err))
			}
		}

		r.logger.DebugContext(ctx, "prescription saved",
			slog.Int64("prescription_id", p.ID),
			slog.Int("lines", len(p.Lines)))

		return nil
	})
}

// FindByID retrieves a prescription with its lines
func (r *prescriptionRepository) FindByID(ctx context.Context, prescriptionID int64) (*domain.Prescription, error) {
	const headerQuery = `
		SELECT prescription_id, patient_id, doctor_name, issued_at, notes, created_at
		FROM prescriptions
		WHERE prescription_id = $1`

	p := &domain.Prescription{}
	var notes sql.NullString

	err := r.db.QueryRow(ctx, headerQuery, prescriptionID).Scan(
		&p.ID, &p.PatientID, &p.DoctorName, &p.IssuedAt, &notes, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find prescription %d: %w",
			prescriptionID, TranslateError(err))
	}
	p.Notes = notes.String

	lines, err := r.loadLines(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	p.Lines = lines

	return p, nil
}

// FindByPatientID retrieves every prescription recorded for a patient,
// newest first, lines included.
func (r *prescriptionRepository) FindByPatientID(ctx context.Context, patientID int64) ([]domain.Prescription, error) {
	const query = `
		SELECT prescription_id, patient_id, doctor_name, issued_at, notes, created_at
		FROM prescriptions
		WHERE patient_id = $1
		ORDER BY issued_at DESC`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescriptions: %w", TranslateError(err))
	}
	defer rows.Close()

	prescriptions := make([]domain.Prescription, 0)
	for rows.Next() {
		var p domain.Prescription
		var notes sql.NullString

		if err := rows.Scan(
			&p.ID, &p.PatientID, &p.DoctorName, &p.IssuedAt, &notes, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prescription: %w", err)
		}
		p.Notes = notes.String
		prescriptions = append(prescriptions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading prescriptions: %w", TranslateError(err))
	}

	for i := range prescriptions {
		lines, err := r.loadLines(ctx, prescriptions[i].ID)
		if err != nil {
			return nil, err
		}
		prescriptions[i].Lines = lines
	}

	return prescriptions, nil
}

func (r *prescriptionRepository) loadLines(ctx context.Context, prescriptionID int64) ([]domain.PrescriptionLine, error) {
	const query = `
		SELECT prescription_id, medicine_id, dosage, quantity
		FROM prescription_items
		WHERE prescription_id = $1
		ORDER BY item_id`

	rows, err := r.db.Query(ctx, query, prescriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load prescription items: %w", TranslateError(err))
	}
	defer rows.Close()

	var lines []domain.PrescriptionLine
	for rows.Next() {
		var line domain.PrescriptionLine
		var dosage sql.NullString

		if err := rows.Scan(&line.PrescriptionID, &line.MedicineID, &dosage, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan prescription item: %w", err)
		}
		line.Dosage = dosage.String
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading prescription items: %w", TranslateError(err))
	}

	return lines, nil
}
