package models

import (
	"time"

	"github.com/google/uuid"
)

type Medication struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CreatedBy  uuid.UUID `json:"created_by" db:"created_by"`
	Name       string    `json:"name" db:"name"`
	DosageForm *string   `json:"dosage_form,omitempty" db:"dosage_form"`
	Strength   *string   `json:"strength,omitempty" db:"strength"`
	Notes      *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type Prescription struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CreatedBy    uuid.UUID `json:"created_by" db:"created_by"`
	PatientID    uuid.UUID `json:"patient_id" db:"patient_id"`
	MedicationID uuid.UUID `json:"medication_id" db:"medication_id"`
	Dosage       string    `json:"dosage" db:"dosage"`
	Frequency    string    `json:"frequency" db:"frequency"`
	DurationDays *int      `json:"duration_days,omitempty" db:"duration_days"`
	Instructions *string   `json:"instructions,omitempty" db:"instructions"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
