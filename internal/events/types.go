package events

import (
	"time"

	"github.com/google/uuid"
)

// BillingEvent is published after every committed billing transition.
type BillingEvent struct {
	PaymentID      *uuid.UUID `json:"payment_id,omitempty"`
	UserID         uuid.UUID  `json:"user_id"`
	PlanID         *uuid.UUID `json:"plan_id,omitempty"`
	Event          string     `json:"event"`
	PaymentStatus  string     `json:"payment_status,omitempty"`
	PlanStatus     string     `json:"plan_status"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}

// VerificationRequested asks the notification worker to deliver a code.
type VerificationRequested struct {
	UserID      uuid.UUID `json:"user_id"`
	Channel     string    `json:"channel"`
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LowStockItem struct {
	ItemID       uuid.UUID `json:"item_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	MinimumStock int       `json:"minimum_stock"`
}

// LowStockAlert lists one tenant's items at or below their minimum stock.
type LowStockAlert struct {
	OwnerID   uuid.UUID      `json:"owner_id"`
	Items     []LowStockItem `json:"items"`
	CheckedAt time.Time      `json:"checked_at"`
}
