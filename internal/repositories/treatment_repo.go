package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TreatmentRepository interface {
	Create(ctx context.Context, treatment *models.Treatment) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Treatment, error)
	Update(ctx context.Context, treatment *models.Treatment) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Treatment, error)
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.Treatment, error)
}

type treatmentRepo struct {
	db DBTX
}

func NewTreatmentRepository(db DBTX) TreatmentRepository {
	return &treatmentRepo{db: db}
}

const treatmentColumns = `id, created_by, patient_id, catalog_id, tooth_number, description, cost, treatment_date, created_at, updated_at`

func scanTreatment(row pgx.Row) (*models.Treatment, error) {
	t := &models.Treatment{}
	err := row.Scan(&t.ID, &t.CreatedBy, &t.PatientID, &t.CatalogID, &t.ToothNumber, &t.Description, &t.Cost,
		&t.TreatmentDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *treatmentRepo) Create(ctx context.Context, treatment *models.Treatment) error {
	query := `
		INSERT INTO treatments (id, created_by, patient_id, catalog_id, tooth_number, description, cost, treatment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, treatment.ID, treatment.CreatedBy, treatment.PatientID, treatment.CatalogID,
		treatment.ToothNumber, treatment.Description, treatment.Cost, treatment.TreatmentDate)
	return translateError("treatment", err)
}

func (r *treatmentRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE created_by = $1 AND id = $2`
	treatment, err := scanTreatment(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("treatment", err)
	}
	return treatment, nil
}

func (r *treatmentRepo) Update(ctx context.Context, treatment *models.Treatment) error {
	query := `
		UPDATE treatments
		SET patient_id = $1, catalog_id = $2, tooth_number = $3, description = $4, cost = $5, treatment_date = $6, updated_at = NOW()
		WHERE created_by = $7 AND id = $8
	`
	tag, err := r.db.Exec(ctx, query, treatment.PatientID, treatment.CatalogID, treatment.ToothNumber, treatment.Description,
		treatment.Cost, treatment.TreatmentDate, treatment.CreatedBy, treatment.ID)
	return expectAffected("treatment", tag, err)
}

func (r *treatmentRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM treatments WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("treatment", tag, err)
}

func (r *treatmentRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM treatments
		WHERE created_by = $1
		ORDER BY treatment_date DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryTreatments(ctx, query, ownerID, limit, offset)
}

func (r *treatmentRepo) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM treatments
		WHERE created_by = $1 AND patient_id = $2
		ORDER BY treatment_date DESC
	`
	return r.queryTreatments(ctx, query, ownerID, patientID)
}

func (r *treatmentRepo) queryTreatments(ctx context.Context, query string, args ...any) ([]*models.Treatment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var treatments []*models.Treatment
	for rows.Next() {
		treatment, err := scanTreatment(rows)
		if err != nil {
			return nil, err
		}
		treatments = append(treatments, treatment)
	}
	return treatments, rows.Err()
}
