package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type MedicationRepository interface {
	Create(ctx context.Context, medication *models.Medication) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Medication, error)
	Update(ctx context.Context, medication *models.Medication) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Medication, error)
}

type medicationRepo struct {
	db DBTX
}

func NewMedicationRepository(db DBTX) MedicationRepository {
	return &medicationRepo{db: db}
}

func (r *medicationRepo) Create(ctx context.Context, medication *models.Medication) error {
	query := `
		INSERT INTO medications (id, created_by, name, dosage_form, strength, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, medication.ID, medication.CreatedBy, medication.Name, medication.DosageForm,
		medication.Strength, medication.Notes)
	return translateError("medication", err)
}

func (r *medicationRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Medication, error) {
	m := &models.Medication{}
	query := `
		SELECT id, created_by, name, dosage_form, strength, notes, created_at, updated_at
		FROM medications
		WHERE created_by = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, id).Scan(&m.ID, &m.CreatedBy, &m.Name, &m.DosageForm, &m.Strength, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, translateError("medication", err)
	}
	return m, nil
}

func (r *medicationRepo) Update(ctx context.Context, medication *models.Medication) error {
	query := `
		UPDATE medications
		SET name = $1, dosage_form = $2, strength = $3, notes = $4, updated_at = NOW()
		WHERE created_by = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, medication.Name, medication.DosageForm, medication.Strength, medication.Notes,
		medication.CreatedBy, medication.ID)
	return expectAffected("medication", tag, err)
}

func (r *medicationRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM medications WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("medication", tag, err)
}

func (r *medicationRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Medication, error) {
	query := `
		SELECT id, created_by, name, dosage_form, strength, notes, created_at, updated_at
		FROM medications
		WHERE created_by = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var medications []*models.Medication
	for rows.Next() {
		m := &models.Medication{}
		if err := rows.Scan(&m.ID, &m.CreatedBy, &m.Name, &m.DosageForm, &m.Strength, &m.Notes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		medications = append(medications, m)
	}
	return medications, rows.Err()
}
