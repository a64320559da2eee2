package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment is revenue received from a patient.
type Payment struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	PatientID   uuid.UUID  `json:"patient_id" db:"patient_id"`
	TreatmentID *uuid.UUID `json:"treatment_id,omitempty" db:"treatment_id"`
	Amount      float64    `json:"amount" db:"amount"`
	Method      string     `json:"method" db:"method"`
	PaidAt      time.Time  `json:"paid_at" db:"paid_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
