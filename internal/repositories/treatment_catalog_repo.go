package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type TreatmentCatalogRepository interface {
	Create(ctx context.Context, entry *models.TreatmentCatalog) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.TreatmentCatalog, error)
	Update(ctx context.Context, entry *models.TreatmentCatalog) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.TreatmentCatalog, error)
}

type treatmentCatalogRepo struct {
	db DBTX
}

func NewTreatmentCatalogRepository(db DBTX) TreatmentCatalogRepository {
	return &treatmentCatalogRepo{db: db}
}

func (r *treatmentCatalogRepo) Create(ctx context.Context, entry *models.TreatmentCatalog) error {
	query := `
		INSERT INTO treatment_catalog (id, created_by, name, description, default_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.CreatedBy, entry.Name, entry.Description, entry.DefaultPrice)
	return translateError("catalog entry", err)
}

func (r *treatmentCatalogRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.TreatmentCatalog, error) {
	entry := &models.TreatmentCatalog{}
	query := `
		SELECT id, created_by, name, description, default_price, created_at, updated_at
		FROM treatment_catalog
		WHERE created_by = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, id).Scan(&entry.ID, &entry.CreatedBy, &entry.Name, &entry.Description,
		&entry.DefaultPrice, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, translateError("catalog entry", err)
	}
	return entry, nil
}

func (r *treatmentCatalogRepo) Update(ctx context.Context, entry *models.TreatmentCatalog) error {
	query := `
		UPDATE treatment_catalog
		SET name = $1, description = $2, default_price = $3, updated_at = NOW()
		WHERE created_by = $4 AND id = $5
	`
	tag, err := r.db.Exec(ctx, query, entry.Name, entry.Description, entry.DefaultPrice, entry.CreatedBy, entry.ID)
	return expectAffected("catalog entry", tag, err)
}

func (r *treatmentCatalogRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM treatment_catalog WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("catalog entry", tag, err)
}

func (r *treatmentCatalogRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.TreatmentCatalog, error) {
	query := `
		SELECT id, created_by, name, description, default_price, created_at, updated_at
		FROM treatment_catalog
		WHERE created_by = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TreatmentCatalog
	for rows.Next() {
		entry := &models.TreatmentCatalog{}
		if err := rows.Scan(&entry.ID, &entry.CreatedBy, &entry.Name, &entry.Description, &entry.DefaultPrice,
			&entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
