package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PatientRepository interface {
	Create(ctx context.Context, patient *models.Patient) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Patient, error)
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Patient, error)
	Search(ctx context.Context, ownerID uuid.UUID, term string, limit, offset int) ([]*models.Patient, error)
}

type patientRepo struct {
	db DBTX
}

func NewPatientRepository(db DBTX) PatientRepository {
	return &patientRepo{db: db}
}

const patientColumns = `id, created_by, first_name, last_name, phone, email, date_of_birth, gender, address, medical_notes, created_at, updated_at`

func scanPatient(row pgx.Row) (*models.Patient, error) {
	p := &models.Patient{}
	err := row.Scan(&p.ID, &p.CreatedBy, &p.FirstName, &p.LastName, &p.Phone, &p.Email, &p.DateOfBirth, &p.Gender,
		&p.Address, &p.MedicalNotes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *patientRepo) Create(ctx context.Context, patient *models.Patient) error {
	query := `
		INSERT INTO patients (id, created_by, first_name, last_name, phone, email, date_of_birth, gender, address, medical_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, patient.ID, patient.CreatedBy, patient.FirstName, patient.LastName, patient.Phone,
		patient.Email, patient.DateOfBirth, patient.Gender, patient.Address, patient.MedicalNotes)
	return translateError("patient", err)
}

func (r *patientRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE created_by = $1 AND id = $2`
	patient, err := scanPatient(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("patient", err)
	}
	return patient, nil
}

func (r *patientRepo) Update(ctx context.Context, patient *models.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, phone = $3, email = $4, date_of_birth = $5, gender = $6, address = $7, medical_notes = $8, updated_at = NOW()
		WHERE created_by = $9 AND id = $10
	`
	tag, err := r.db.Exec(ctx, query, patient.FirstName, patient.LastName, patient.Phone, patient.Email, patient.DateOfBirth,
		patient.Gender, patient.Address, patient.MedicalNotes, patient.CreatedBy, patient.ID)
	return expectAffected("patient", tag, err)
}

func (r *patientRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM patients WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("patient", tag, err)
}

func (r *patientRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE created_by = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPatients(ctx, query, ownerID, limit, offset)
}

// Search matches the term against first name, last name and phone.
func (r *patientRepo) Search(ctx context.Context, ownerID uuid.UUID, term string, limit, offset int) ([]*models.Patient, error) {
	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE created_by = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR phone ILIKE $2)
		ORDER BY last_name, first_name
		LIMIT $3 OFFSET $4
	`
	return r.queryPatients(ctx, query, ownerID, "%"+term+"%", limit, offset)
}

func (r *patientRepo) queryPatients(ctx context.Context, query string, args ...any) ([]*models.Patient, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	return patients, rows.Err()
}
