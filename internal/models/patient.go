package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	Email        *string    `json:"email,omitempty" db:"email"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender       *string    `json:"gender,omitempty" db:"gender"`
	Address      *string    `json:"address,omitempty" db:"address"`
	MedicalNotes *string    `json:"medical_notes,omitempty" db:"medical_notes"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// PatientDocument is the metadata of a file stored in object storage.
type PatientDocument struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	PatientID   uuid.UUID `json:"patient_id" db:"patient_id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	ObjectKey   string    `json:"-" db:"object_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
