package models

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

type Appointment struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	CreatedBy uuid.UUID         `json:"created_by" db:"created_by"`
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	StartsAt  time.Time         `json:"starts_at" db:"starts_at"`
	EndsAt    time.Time         `json:"ends_at" db:"ends_at"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     *string           `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}
