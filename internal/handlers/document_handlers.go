package handlers

import (
	"net/http"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/middleware"
	"dentiq/internal/models"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// DocumentHandlers manages files attached to patients
type DocumentHandlers struct {
	documents services.DocumentService
}

func NewDocumentHandlers(documents services.DocumentService) *DocumentHandlers {
	return &DocumentHandlers{documents: documents}
}

// Upload godoc
// @Summary Attach a file to a patient
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Patient ID"
// @Param file formData file true "Document"
// @Success 201 {object} models.PatientDocument
// @Security BearerAuth
// @Router /api/patients/{id}/documents [post]
func (h *DocumentHandlers) Upload(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	patientID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return common.NewValidationError("file", "is required")
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	doc, err := h.documents.Upload(c.Request().Context(), user.ID, services.UploadInput{
		PatientID:   patientID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandlers) List(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	patientID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	docs, err := h.documents.ListByPatient(c.Request().Context(), user.ID, patientID)
	if err != nil {
		return err
	}
	if docs == nil {
		docs = []*models.PatientDocument{}
	}
	return c.JSON(http.StatusOK, map[string]any{"documents": docs})
}

// DownloadURL returns a short-lived presigned link to the file
func (h *DocumentHandlers) DownloadURL(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	link, expiresAt, err := h.documents.DownloadURL(c.Request().Context(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"url":        link,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *DocumentHandlers) Delete(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.documents.Delete(c.Request().Context(), user.ID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
