package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type WorkingHoursRepository interface {
	Create(ctx context.Context, hours *models.WorkingHours) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.WorkingHours, error)
	Update(ctx context.Context, hours *models.WorkingHours) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.WorkingHours, error)
}

type workingHoursRepo struct {
	db DBTX
}

func NewWorkingHoursRepository(db DBTX) WorkingHoursRepository {
	return &workingHoursRepo{db: db}
}

func (r *workingHoursRepo) Create(ctx context.Context, hours *models.WorkingHours) error {
	query := `
		INSERT INTO working_hours (id, created_by, employee_id, day_of_week, start_time, end_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, hours.ID, hours.CreatedBy, hours.EmployeeID, hours.DayOfWeek, hours.StartTime, hours.EndTime)
	return translateError("working hours", err)
}

func (r *workingHoursRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.WorkingHours, error) {
	h := &models.WorkingHours{}
	query := `
		SELECT id, created_by, employee_id, day_of_week, start_time, end_time, created_at, updated_at
		FROM working_hours
		WHERE created_by = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, id).Scan(&h.ID, &h.CreatedBy, &h.EmployeeID, &h.DayOfWeek, &h.StartTime,
		&h.EndTime, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, translateError("working hours", err)
	}
	return h, nil
}

func (r *workingHoursRepo) Update(ctx context.Context, hours *models.WorkingHours) error {
	query := `
		UPDATE working_hours
		SET employee_id = $1, day_of_week = $2, start_time = $3, end_time = $4, updated_at = NOW()
		WHERE created_by = $5 AND id = $6
	`
	tag, err := r.db.Exec(ctx, query, hours.EmployeeID, hours.DayOfWeek, hours.StartTime, hours.EndTime, hours.CreatedBy, hours.ID)
	return expectAffected("working hours", tag, err)
}

func (r *workingHoursRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM working_hours WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("working hours", tag, err)
}

func (r *workingHoursRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.WorkingHours, error) {
	query := `
		SELECT id, created_by, employee_id, day_of_week, start_time, end_time, created_at, updated_at
		FROM working_hours
		WHERE created_by = $1
		ORDER BY day_of_week, start_time
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []*models.WorkingHours
	for rows.Next() {
		h := &models.WorkingHours{}
		if err := rows.Scan(&h.ID, &h.CreatedBy, &h.EmployeeID, &h.DayOfWeek, &h.StartTime, &h.EndTime, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		slots = append(slots, h)
	}
	return slots, rows.Err()
}
