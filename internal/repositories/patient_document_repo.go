package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type PatientDocumentRepository interface {
	Create(ctx context.Context, doc *models.PatientDocument) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.PatientDocument, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.PatientDocument, error)
}

type patientDocumentRepo struct {
	db DBTX
}

func NewPatientDocumentRepository(db DBTX) PatientDocumentRepository {
	return &patientDocumentRepo{db: db}
}

func (r *patientDocumentRepo) Create(ctx context.Context, doc *models.PatientDocument) error {
	query := `
		INSERT INTO patient_documents (id, created_by, patient_id, file_name, content_type, size_bytes, object_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.CreatedBy, doc.PatientID, doc.FileName, doc.ContentType, doc.SizeBytes, doc.ObjectKey)
	return translateError("document", err)
}

func (r *patientDocumentRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.PatientDocument, error) {
	d := &models.PatientDocument{}
	query := `
		SELECT id, created_by, patient_id, file_name, content_type, size_bytes, object_key, created_at
		FROM patient_documents
		WHERE created_by = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, id).Scan(&d.ID, &d.CreatedBy, &d.PatientID, &d.FileName, &d.ContentType,
		&d.SizeBytes, &d.ObjectKey, &d.CreatedAt)
	if err != nil {
		return nil, translateError("document", err)
	}
	return d, nil
}

func (r *patientDocumentRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM patient_documents WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("document", tag, err)
}

func (r *patientDocumentRepo) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.PatientDocument, error) {
	query := `
		SELECT id, created_by, patient_id, file_name, content_type, size_bytes, object_key, created_at
		FROM patient_documents
		WHERE created_by = $1 AND patient_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.PatientDocument
	for rows.Next() {
		d := &models.PatientDocument{}
		if err := rows.Scan(&d.ID, &d.CreatedBy, &d.PatientID, &d.FileName, &d.ContentType, &d.SizeBytes, &d.ObjectKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
