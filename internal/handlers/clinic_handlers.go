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

// PatientHandlers adds search to the patient CRUD endpoints
type PatientHandlers struct {
	*ResourceHandlers[models.Patient]
	patients   services.PatientService
	treatments services.TreatmentService
}

func NewPatientHandlers(patients services.PatientService, treatments services.TreatmentService) *PatientHandlers {
	return &PatientHandlers{
		ResourceHandlers: NewResourceHandlers[models.Patient]("patients", patients),
		patients:         patients,
		treatments:       treatments,
	}
}

func (h *PatientHandlers) Register(g *echo.Group) {
	g.GET("/search", h.Search)
	g.GET("/:id/treatments", h.Treatments)
	h.ResourceHandlers.Register(g)
}

// Search handles GET /patients/search?q=
func (h *PatientHandlers) Search(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	patients, err := h.patients.Search(c.Request().Context(), user.ID, c.QueryParam("q"), limit, offset)
	if err != nil {
		return err
	}
	if patients == nil {
		patients = []*models.Patient{}
	}
	return c.JSON(http.StatusOK, listResponse("patients", patients, limit, offset))
}

func (h *PatientHandlers) Treatments(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	patientID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	treatments, err := h.treatments.ListByPatient(c.Request().Context(), user.ID, patientID)
	if err != nil {
		return err
	}
	if treatments == nil {
		treatments = []*models.Treatment{}
	}
	return c.JSON(http.StatusOK, map[string]any{"treatments": treatments})
}

// AppointmentHandlers adds the calendar range query
type AppointmentHandlers struct {
	*ResourceHandlers[models.Appointment]
	appointments services.AppointmentService
}

func NewAppointmentHandlers(appointments services.AppointmentService) *AppointmentHandlers {
	return &AppointmentHandlers{
		ResourceHandlers: NewResourceHandlers[models.Appointment]("appointments", appointments),
		appointments:     appointments,
	}
}

func (h *AppointmentHandlers) Register(g *echo.Group) {
	g.GET("/range", h.Range)
	h.ResourceHandlers.Register(g)
}

// Range handles GET /appointments/range?from=RFC3339&to=RFC3339
func (h *AppointmentHandlers) Range(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	from, err := time.Parse(time.RFC3339, c.QueryParam("from"))
	if err != nil {
		return common.NewValidationError("from", "must be an RFC3339 timestamp")
	}
	to, err := time.Parse(time.RFC3339, c.QueryParam("to"))
	if err != nil {
		return common.NewValidationError("to", "must be an RFC3339 timestamp")
	}

	appointments, err := h.appointments.ListBetween(c.Request().Context(), user.ID, from, to)
	if err != nil {
		return err
	}
	if appointments == nil {
		appointments = []*models.Appointment{}
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": appointments})
}

// ItemHandlers adds the low-stock report to inventory items
type ItemHandlers struct {
	*ResourceHandlers[models.Item]
	items services.ItemService
}

func NewItemHandlers(items services.ItemService) *ItemHandlers {
	return &ItemHandlers{
		ResourceHandlers: NewResourceHandlers[models.Item]("items", items),
		items:            items,
	}
}

func (h *ItemHandlers) Register(g *echo.Group) {
	g.GET("/low-stock", h.LowStock)
	h.ResourceHandlers.Register(g)
}

func (h *ItemHandlers) LowStock(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}

	items, err := h.items.ListLowStock(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*models.Item{}
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}
