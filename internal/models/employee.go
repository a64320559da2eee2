package models

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedBy uuid.UUID  `json:"created_by" db:"created_by"`
	FullName  string     `json:"full_name" db:"full_name"`
	Position  string     `json:"position" db:"position"`
	Phone     *string    `json:"phone,omitempty" db:"phone"`
	Email     *string    `json:"email,omitempty" db:"email"`
	Salary    float64    `json:"salary" db:"salary"`
	HireDate  *time.Time `json:"hire_date,omitempty" db:"hire_date"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// WorkingHours is a weekly slot. A nil EmployeeID means the practitioner.
type WorkingHours struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	EmployeeID *uuid.UUID `json:"employee_id,omitempty" db:"employee_id"`
	DayOfWeek  int        `json:"day_of_week" db:"day_of_week"`
	StartTime  string     `json:"start_time" db:"start_time"`
	EndTime    string     `json:"end_time" db:"end_time"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
