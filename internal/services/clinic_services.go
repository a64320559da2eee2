package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PatientService interface {
	TenantService[models.Patient]
	Search(ctx context.Context, ownerID uuid.UUID, term string, limit, offset int) ([]*models.Patient, error)
}

type patientService struct {
	*tenantService[models.Patient, *models.Patient]
	patients repositories.PatientRepository
}

func NewPatientService(patients repositories.PatientRepository, log *zap.Logger) PatientService {
	validate := func(_ context.Context, _ uuid.UUID, p *models.Patient) error {
		p.FirstName = strings.TrimSpace(p.FirstName)
		p.LastName = strings.TrimSpace(p.LastName)
		f := fieldErrors{}
		f.require(p.FirstName, "first_name")
		f.require(p.LastName, "last_name")
		if p.Gender != nil {
			switch strings.ToUpper(*p.Gender) {
			case "MALE", "FEMALE", "OTHER":
				g := strings.ToUpper(*p.Gender)
				p.Gender = &g
			default:
				f["gender"] = "must be one of: MALE FEMALE OTHER"
			}
		}
		if p.DateOfBirth != nil && p.DateOfBirth.After(time.Now()) {
			f["date_of_birth"] = "must not be in the future"
		}
		return f.err()
	}
	return &patientService{
		tenantService: newTenantService[models.Patient, *models.Patient]("patient", patients, validate, log),
		patients:      patients,
	}
}

// Search matches the term against first name, last name and phone. An empty
// term lists every patient.
func (s *patientService) Search(ctx context.Context, ownerID uuid.UUID, term string, limit, offset int) ([]*models.Patient, error) {
	term = common.SanitizeSearchQuery(term)
	limit, offset = common.NormalizePagination(limit, offset)
	if term == "" {
		return s.patients.List(ctx, ownerID, limit, offset)
	}
	return s.patients.Search(ctx, ownerID, term, limit, offset)
}

type AppointmentService interface {
	TenantService[models.Appointment]
	ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*models.Appointment, error)
}

type appointmentService struct {
	*tenantService[models.Appointment, *models.Appointment]
	appointments repositories.AppointmentRepository
}

func NewAppointmentService(appointments repositories.AppointmentRepository, patients repositories.PatientRepository, log *zap.Logger) AppointmentService {
	validate := func(ctx context.Context, ownerID uuid.UUID, a *models.Appointment) error {
		f := fieldErrors{}
		if a.StartsAt.IsZero() {
			f["starts_at"] = "is required"
		}
		if !a.EndsAt.After(a.StartsAt) {
			f["ends_at"] = "must be after starts_at"
		}
		switch a.Status {
		case "":
			a.Status = models.AppointmentScheduled
		case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled:
		default:
			f["status"] = "must be one of: SCHEDULED COMPLETED CANCELLED"
		}
		if err := f.err(); err != nil {
			return err
		}
		return requireOwned(ctx, patients.GetByID, ownerID, a.PatientID, "patient_id")
	}
	return &appointmentService{
		tenantService: newTenantService[models.Appointment, *models.Appointment]("appointment", appointments, validate, log),
		appointments:  appointments,
	}
}

func (s *appointmentService) ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*models.Appointment, error) {
	if !to.After(from) {
		return nil, common.NewValidationError("to", "must be after from")
	}
	return s.appointments.ListBetween(ctx, ownerID, from, to)
}

func NewTreatmentCatalogService(catalog repositories.TreatmentCatalogRepository, log *zap.Logger) TenantService[models.TreatmentCatalog] {
	validate := func(_ context.Context, _ uuid.UUID, c *models.TreatmentCatalog) error {
		c.Name = strings.TrimSpace(c.Name)
		f := fieldErrors{}
		f.require(c.Name, "name")
		f.nonNegative(c.DefaultPrice, "default_price")
		return f.err()
	}
	return newTenantService[models.TreatmentCatalog, *models.TreatmentCatalog]("treatment catalog entry", catalog, validate, log)
}

type TreatmentService interface {
	TenantService[models.Treatment]
	ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.Treatment, error)
}

type treatmentService struct {
	*tenantService[models.Treatment, *models.Treatment]
	treatments repositories.TreatmentRepository
	patients   repositories.PatientRepository
}

// NewTreatmentService builds the treatment service. A treatment recorded
// against a catalog entry without a cost takes the entry's default price.
func NewTreatmentService(treatments repositories.TreatmentRepository, patients repositories.PatientRepository, catalog repositories.TreatmentCatalogRepository, invalidator TenantInvalidator, log *zap.Logger) TreatmentService {
	validate := func(ctx context.Context, ownerID uuid.UUID, t *models.Treatment) error {
		t.Description = strings.TrimSpace(t.Description)
		f := fieldErrors{}
		f.nonNegative(t.Cost, "cost")
		if t.ToothNumber != nil && (*t.ToothNumber < 1 || *t.ToothNumber > 48) {
			f["tooth_number"] = "must be between 1 and 48"
		}
		if t.TreatmentDate.IsZero() {
			t.TreatmentDate = time.Now()
		}
		if t.Description == "" && t.CatalogID == nil {
			f["description"] = "is required"
		}
		if err := f.err(); err != nil {
			return err
		}
		if err := requireOwned(ctx, patients.GetByID, ownerID, t.PatientID, "patient_id"); err != nil {
			return err
		}
		if t.CatalogID == nil {
			return nil
		}
		entry, err := catalog.GetByID(ctx, ownerID, *t.CatalogID)
		if err != nil {
			return referenceError("catalog_id", err)
		}
		if t.Cost == 0 {
			t.Cost = entry.DefaultPrice
		}
		if t.Description == "" {
			t.Description = entry.Name
		}
		return nil
	}
	svc := &treatmentService{
		tenantService: newTenantService[models.Treatment, *models.Treatment]("treatment", treatments, validate, log),
		treatments:    treatments,
		patients:      patients,
	}
	svc.onWrite = invalidator
	return svc
}

func (s *treatmentService) ListByPatient(ctx context.Context, ownerID, patientID uuid.UUID) ([]*models.Treatment, error) {
	if _, err := s.patients.GetByID(ctx, ownerID, patientID); err != nil {
		return nil, err
	}
	return s.treatments.ListByPatient(ctx, ownerID, patientID)
}

func NewPaymentService(payments repositories.PaymentRepository, patients repositories.PatientRepository, treatments repositories.TreatmentRepository, invalidator TenantInvalidator, log *zap.Logger) TenantService[models.Payment] {
	validate := func(ctx context.Context, ownerID uuid.UUID, p *models.Payment) error {
		p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
		f := fieldErrors{}
		if p.Amount <= 0 {
			f["amount"] = "must be greater than 0"
		}
		f.require(p.Method, "method")
		if p.PaidAt.IsZero() {
			p.PaidAt = time.Now()
		}
		if err := f.err(); err != nil {
			return err
		}
		if err := requireOwned(ctx, patients.GetByID, ownerID, p.PatientID, "patient_id"); err != nil {
			return err
		}
		if p.TreatmentID == nil {
			return nil
		}
		treatment, err := treatments.GetByID(ctx, ownerID, *p.TreatmentID)
		if err != nil {
			return referenceError("treatment_id", err)
		}
		if treatment.PatientID != p.PatientID {
			return common.NewValidationError("treatment_id", "belongs to another patient")
		}
		return nil
	}
	svc := newTenantService[models.Payment, *models.Payment]("payment", payments, validate, log)
	svc.onWrite = invalidator
	return svc
}

func NewExpenseService(expenses repositories.ExpenseRepository, invalidator TenantInvalidator, log *zap.Logger) TenantService[models.Expense] {
	validate := func(_ context.Context, _ uuid.UUID, e *models.Expense) error {
		e.Title = strings.TrimSpace(e.Title)
		e.Category = strings.ToLower(strings.TrimSpace(e.Category))
		f := fieldErrors{}
		f.require(e.Title, "title")
		f.require(e.Category, "category")
		f.nonNegative(e.Amount, "amount")
		if e.ExpenseDate.IsZero() {
			e.ExpenseDate = time.Now()
		}
		return f.err()
	}
	svc := newTenantService[models.Expense, *models.Expense]("expense", expenses, validate, log)
	svc.onWrite = invalidator
	return svc
}

type ItemService interface {
	TenantService[models.Item]
	ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error)
}

type itemService struct {
	*tenantService[models.Item, *models.Item]
	items repositories.ItemRepository
}

func NewItemService(items repositories.ItemRepository, invalidator TenantInvalidator, log *zap.Logger) ItemService {
	validate := func(_ context.Context, _ uuid.UUID, i *models.Item) error {
		i.Name = strings.TrimSpace(i.Name)
		f := fieldErrors{}
		f.require(i.Name, "name")
		if i.Quantity < 0 {
			f["quantity"] = "must not be negative"
		}
		if i.MinimumStock < 0 {
			f["minimum_stock"] = "must not be negative"
		}
		f.nonNegative(i.UnitPrice, "unit_price")
		return f.err()
	}
	svc := &itemService{
		tenantService: newTenantService[models.Item, *models.Item]("item", items, validate, log),
		items:         items,
	}
	svc.onWrite = invalidator
	return svc
}

func (s *itemService) ListLowStock(ctx context.Context, ownerID uuid.UUID) ([]*models.Item, error) {
	return s.items.ListLowStock(ctx, ownerID)
}

func NewMedicationService(medications repositories.MedicationRepository, log *zap.Logger) TenantService[models.Medication] {
	validate := func(_ context.Context, _ uuid.UUID, m *models.Medication) error {
		m.Name = strings.TrimSpace(m.Name)
		f := fieldErrors{}
		f.require(m.Name, "name")
		return f.err()
	}
	return newTenantService[models.Medication, *models.Medication]("medication", medications, validate, log)
}

func NewPrescriptionService(prescriptions repositories.PrescriptionRepository, patients repositories.PatientRepository, medications repositories.MedicationRepository, log *zap.Logger) TenantService[models.Prescription] {
	validate := func(ctx context.Context, ownerID uuid.UUID, p *models.Prescription) error {
		f := fieldErrors{}
		f.require(p.Dosage, "dosage")
		f.require(p.Frequency, "frequency")
		if p.DurationDays != nil && *p.DurationDays <= 0 {
			f["duration_days"] = "must be positive"
		}
		if p.IssuedAt.IsZero() {
			p.IssuedAt = time.Now()
		}
		if err := f.err(); err != nil {
			return err
		}
		if err := requireOwned(ctx, patients.GetByID, ownerID, p.PatientID, "patient_id"); err != nil {
			return err
		}
		return requireOwned(ctx, medications.GetByID, ownerID, p.MedicationID, "medication_id")
	}
	return newTenantService[models.Prescription, *models.Prescription]("prescription", prescriptions, validate, log)
}

func NewEmployeeService(employees repositories.EmployeeRepository, log *zap.Logger) TenantService[models.Employee] {
	validate := func(_ context.Context, _ uuid.UUID, e *models.Employee) error {
		e.FullName = strings.TrimSpace(e.FullName)
		e.Position = strings.TrimSpace(e.Position)
		f := fieldErrors{}
		f.require(e.FullName, "full_name")
		f.require(e.Position, "position")
		f.nonNegative(e.Salary, "salary")
		return f.err()
	}
	return newTenantService[models.Employee, *models.Employee]("employee", employees, validate, log)
}

const clockLayout = "15:04"

func NewWorkingHoursService(hours repositories.WorkingHoursRepository, employees repositories.EmployeeRepository, log *zap.Logger) TenantService[models.WorkingHours] {
	validate := func(ctx context.Context, ownerID uuid.UUID, w *models.WorkingHours) error {
		f := fieldErrors{}
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			f["day_of_week"] = "must be between 0 and 6"
		}
		start, startErr := time.Parse(clockLayout, w.StartTime)
		if startErr != nil {
			f["start_time"] = fmt.Sprintf("must use the %s format", clockLayout)
		}
		end, endErr := time.Parse(clockLayout, w.EndTime)
		if endErr != nil {
			f["end_time"] = fmt.Sprintf("must use the %s format", clockLayout)
		}
		if startErr == nil && endErr == nil && !end.After(start) {
			f["end_time"] = "must be after start_time"
		}
		if err := f.err(); err != nil {
			return err
		}
		if w.EmployeeID == nil {
			return nil
		}
		return requireOwned(ctx, employees.GetByID, ownerID, *w.EmployeeID, "employee_id")
	}
	return newTenantService[models.WorkingHours, *models.WorkingHours]("working hours", hours, validate, log)
}
