package models

import (
	"time"

	"github.com/google/uuid"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "MONTHLY"
	BillingCycleYearly  BillingCycle = "YEARLY"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusConfirmed PaymentStatus = "CONFIRMED"
	PaymentStatusRejected  PaymentStatus = "REJECTED"
)

// HandPayment is a manually attested subscription payment awaiting admin review.
type HandPayment struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	PlanID        uuid.UUID     `json:"plan_id" db:"plan_id"`
	Amount        float64       `json:"amount" db:"amount"`
	BillingCycle  BillingCycle  `json:"billing_cycle" db:"billing_cycle"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentMethod *string       `json:"payment_method,omitempty" db:"payment_method"`
	Notes         *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	ProcessedAt   *time.Time    `json:"processed_at,omitempty" db:"processed_at"`
	ProcessedBy   *uuid.UUID    `json:"processed_by,omitempty" db:"processed_by"`
}

// BillingEvent names an input to the billing transition tables.
type BillingEvent string

const (
	BillingEventSubmit  BillingEvent = "SUBMIT"
	BillingEventConfirm BillingEvent = "CONFIRM"
	BillingEventReject  BillingEvent = "REJECT"
	BillingEventExpire  BillingEvent = "EXPIRE"
)

// BillingAuditEntry records one applied billing transition.
type BillingAuditEntry struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	PaymentID         *uuid.UUID     `json:"payment_id,omitempty" db:"payment_id"`
	UserID            uuid.UUID      `json:"user_id" db:"user_id"`
	ActorID           *uuid.UUID     `json:"actor_id,omitempty" db:"actor_id"`
	Event             BillingEvent   `json:"event" db:"event"`
	FromPaymentStatus *PaymentStatus `json:"from_payment_status,omitempty" db:"from_payment_status"`
	ToPaymentStatus   *PaymentStatus `json:"to_payment_status,omitempty" db:"to_payment_status"`
	FromPlanStatus    PlanStatus     `json:"from_plan_status" db:"from_plan_status"`
	ToPlanStatus      PlanStatus     `json:"to_plan_status" db:"to_plan_status"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
}
