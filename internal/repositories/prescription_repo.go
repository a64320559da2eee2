package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Prescription, error)
	Update(ctx context.Context, prescription *models.Prescription) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Prescription, error)
}

type prescriptionRepo struct {
	db DBTX
}

func NewPrescriptionRepository(db DBTX) PrescriptionRepository {
	return &prescriptionRepo{db: db}
}

const prescriptionColumns = `id, created_by, patient_id, medication_id, dosage, frequency, duration_days, instructions, issued_at, created_at, updated_at`

func scanPrescription(row pgx.Row) (*models.Prescription, error) {
	p := &models.Prescription{}
	err := row.Scan(&p.ID, &p.CreatedBy, &p.PatientID, &p.MedicationID, &p.Dosage, &p.Frequency, &p.DurationDays,
		&p.Instructions, &p.IssuedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *prescriptionRepo) Create(ctx context.Context, prescription *models.Prescription) error {
	query := `
		INSERT INTO prescriptions (id, created_by, patient_id, medication_id, dosage, frequency, duration_days, instructions, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, prescription.ID, prescription.CreatedBy, prescription.PatientID, prescription.MedicationID,
		prescription.Dosage, prescription.Frequency, prescription.DurationDays, prescription.Instructions, prescription.IssuedAt)
	return translateError("prescription", err)
}

func (r *prescriptionRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE created_by = $1 AND id = $2`
	prescription, err := scanPrescription(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("prescription", err)
	}
	return prescription, nil
}

func (r *prescriptionRepo) Update(ctx context.Context, prescription *models.Prescription) error {
	query := `
		UPDATE prescriptions
		SET patient_id = $1, medication_id = $2, dosage = $3, frequency = $4, duration_days = $5, instructions = $6, issued_at = $7, updated_at = NOW()
		WHERE created_by = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, prescription.PatientID, prescription.MedicationID, prescription.Dosage,
		prescription.Frequency, prescription.DurationDays, prescription.Instructions, prescription.IssuedAt,
		prescription.CreatedBy, prescription.ID)
	return expectAffected("prescription", tag, err)
}

func (r *prescriptionRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM prescriptions WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("prescription", tag, err)
}

func (r *prescriptionRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE created_by = $1
		ORDER BY issued_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prescriptions []*models.Prescription
	for rows.Next() {
		prescription, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		prescriptions = append(prescriptions, prescription)
	}
	return prescriptions, rows.Err()
}
