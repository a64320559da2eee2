package models

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentCatalog is a reusable procedure with a default price.
type TreatmentCatalog struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CreatedBy    uuid.UUID `json:"created_by" db:"created_by"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	DefaultPrice float64   `json:"default_price" db:"default_price"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Treatment struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CreatedBy     uuid.UUID  `json:"created_by" db:"created_by"`
	PatientID     uuid.UUID  `json:"patient_id" db:"patient_id"`
	CatalogID     *uuid.UUID `json:"catalog_id,omitempty" db:"catalog_id"`
	ToothNumber   *int       `json:"tooth_number,omitempty" db:"tooth_number"`
	Description   string     `json:"description" db:"description"`
	Cost          float64    `json:"cost" db:"cost"`
	TreatmentDate time.Time  `json:"treatment_date" db:"treatment_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
