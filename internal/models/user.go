package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDentist Role = "DENTIST"
)

// PlanStatus is the subscription state of a user.
type PlanStatus string

const (
	PlanStatusPending  PlanStatus = "PENDING"
	PlanStatusWaiting  PlanStatus = "WAITING"
	PlanStatusActive   PlanStatus = "ACTIVE"
	PlanStatusInactive PlanStatus = "INACTIVE"
)

type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Username       string     `json:"username" db:"username"`
	Email          string     `json:"email" db:"email"`
	PasswordHash   string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FullName       string     `json:"full_name" db:"full_name"`
	Phone          *string    `json:"phone,omitempty" db:"phone"`
	Role           Role       `json:"role" db:"role"`
	PlanStatus     PlanStatus `json:"plan_status" db:"plan_status"`
	PlanID         *uuid.UUID `json:"plan_id,omitempty" db:"plan_id"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	EmailVerified  bool       `json:"email_verified" db:"email_verified"`
	PhoneVerified  bool       `json:"phone_verified" db:"phone_verified"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasAccess reports whether the user may use tenant-scoped features.
func (u *User) HasAccess() bool {
	return u.IsAdmin() || u.PlanStatus == PlanStatusActive
}
