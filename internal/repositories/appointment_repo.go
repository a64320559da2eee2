package repositories

import (
	"context"
	"time"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Appointment, error)
	Update(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Appointment, error)
	ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*models.Appointment, error)
}

type appointmentRepo struct {
	db DBTX
}

func NewAppointmentRepository(db DBTX) AppointmentRepository {
	return &appointmentRepo{db: db}
}

const appointmentColumns = `id, created_by, patient_id, starts_at, ends_at, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*models.Appointment, error) {
	a := &models.Appointment{}
	if err := row.Scan(&a.ID, &a.CreatedBy, &a.PatientID, &a.StartsAt, &a.EndsAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *appointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (id, created_by, patient_id, starts_at, ends_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, appointment.ID, appointment.CreatedBy, appointment.PatientID, appointment.StartsAt,
		appointment.EndsAt, appointment.Status, appointment.Notes)
	return translateError("appointment", err)
}

func (r *appointmentRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE created_by = $1 AND id = $2`
	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("appointment", err)
	}
	return appointment, nil
}

func (r *appointmentRepo) Update(ctx context.Context, appointment *models.Appointment) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, starts_at = $2, ends_at = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE created_by = $6 AND id = $7
	`
	tag, err := r.db.Exec(ctx, query, appointment.PatientID, appointment.StartsAt, appointment.EndsAt, appointment.Status,
		appointment.Notes, appointment.CreatedBy, appointment.ID)
	return expectAffected("appointment", tag, err)
}

func (r *appointmentRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("appointment", tag, err)
}

func (r *appointmentRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE created_by = $1
		ORDER BY starts_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryAppointments(ctx, query, ownerID, limit, offset)
}

func (r *appointmentRepo) ListBetween(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE created_by = $1 AND starts_at >= $2 AND starts_at < $3
		ORDER BY starts_at
	`
	return r.queryAppointments(ctx, query, ownerID, from, to)
}

func (r *appointmentRepo) queryAppointments(ctx context.Context, query string, args ...any) ([]*models.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []*models.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	return appointments, rows.Err()
}
