package models

import "github.com/google/uuid"

// Owned is implemented by every record that belongs to one dentist.
type Owned interface {
	SetKeys(id, ownerID uuid.UUID)
}

func (p *Patient) SetKeys(id, ownerID uuid.UUID)          { p.ID, p.CreatedBy = id, ownerID }
func (a *Appointment) SetKeys(id, ownerID uuid.UUID)      { a.ID, a.CreatedBy = id, ownerID }
func (t *TreatmentCatalog) SetKeys(id, ownerID uuid.UUID) { t.ID, t.CreatedBy = id, ownerID }
func (t *Treatment) SetKeys(id, ownerID uuid.UUID)        { t.ID, t.CreatedBy = id, ownerID }
func (p *Payment) SetKeys(id, ownerID uuid.UUID)          { p.ID, p.CreatedBy = id, ownerID }
func (e *Expense) SetKeys(id, ownerID uuid.UUID)          { e.ID, e.CreatedBy = id, ownerID }
func (i *Item) SetKeys(id, ownerID uuid.UUID)             { i.ID, i.CreatedBy = id, ownerID }
func (m *Medication) SetKeys(id, ownerID uuid.UUID)       { m.ID, m.CreatedBy = id, ownerID }
func (p *Prescription) SetKeys(id, ownerID uuid.UUID)     { p.ID, p.CreatedBy = id, ownerID }
func (e *Employee) SetKeys(id, ownerID uuid.UUID)         { e.ID, e.CreatedBy = id, ownerID }
func (w *WorkingHours) SetKeys(id, ownerID uuid.UUID)     { w.ID, w.CreatedBy = id, ownerID }
