package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxDocumentSize = 20 << 20

type UploadInput struct {
	PatientID   uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentService stores patient files in object storage and their metadata
// in Postgres.
type DocumentService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, input UploadInput) (*models.PatientDocument, error)
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.PatientDocument, error)
	DownloadURL(ctx context.Context, ownerID, id uuid.UUID) (string, time.Time, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type documentService struct {
	docs     repositories.PatientDocumentRepository
	patients repositories.PatientRepository
	store    ObjectStore
	urlTTL   time.Duration
	log      *zap.Logger
}

func NewDocumentService(docs repositories.PatientDocumentRepository, patients repositories.PatientRepository, store ObjectStore, urlTTL time.Duration, log *zap.Logger) DocumentService {
	return &documentService{docs: docs, patients: patients, store: store, urlTTL: urlTTL, log: log}
}

// documentKey lays objects out as <owner>/<patient>/<uuid>-<filename>.
func documentKey(ownerID, patientID, id uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s-%s", ownerID, patientID, id, fileName)
}

func cleanFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *documentService) Upload(ctx context.Context, ownerID uuid.UUID, input UploadInput) (*models.PatientDocument, error) {
	input.FileName = cleanFileName(input.FileName)
	f := fieldErrors{}
	f.require(input.FileName, "file")
	if input.Size <= 0 {
		f["file"] = "must not be empty"
	} else if input.Size > MaxDocumentSize {
		f["file"] = fmt.Sprintf("must be at most %d bytes", MaxDocumentSize)
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	if input.ContentType == "" {
		input.ContentType = "application/octet-stream"
	}
	if err := requireOwned(ctx, s.patients.GetByID, ownerID, input.PatientID, "patient_id"); err != nil {
		return nil, err
	}

	doc := &models.PatientDocument{
		ID:          uuid.New(),
		CreatedBy:   ownerID,
		PatientID:   input.PatientID,
		FileName:    input.FileName,
		ContentType: input.ContentType,
		SizeBytes:   input.Size,
	}
	doc.ObjectKey = documentKey(ownerID, input.PatientID, doc.ID, doc.FileName)

	if err := s.store.Put(ctx, doc.ObjectKey, input.Body, input.Size, input.ContentType); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		if rmErr := s.store.Remove(ctx, doc.ObjectKey); rmErr != nil {
			s.log.Warn("failed to remove orphaned object", zap.String("key", doc.ObjectKey), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("save document metadata: %w", err)
	}

	s.log.Info("document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("patient_id", doc.PatientID.String()),
		zap.Int64("size", doc.SizeBytes),
	)
	return doc, nil
}

func (s *documentService) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.PatientDocument, error) {
	if _, err := s.patients.GetByID(ctx, ownerID, patientID); err != nil {
		return nil, err
	}
	return s.docs.ListByPatient(ctx, ownerID, patientID)
}

func (s *documentService) DownloadURL(ctx context.Context, ownerID, id uuid.UUID) (string, time.Time, error) {
	doc, err := s.docs.GetByID(ctx, ownerID, id)
	if err != nil {
		return "", time.Time{}, err
	}
	link, err := s.store.PresignedURL(ctx, doc.ObjectKey, doc.FileName, s.urlTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign document: %w", err)
	}
	return link, time.Now().Add(s.urlTTL), nil
}

// Delete removes the metadata first; a leftover object is only logged.
func (s *documentService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	doc, err := s.docs.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, doc.ObjectKey); err != nil {
		s.log.Warn("failed to remove document object", zap.String("key", doc.ObjectKey), zap.Error(err))
	}
	return nil
}

