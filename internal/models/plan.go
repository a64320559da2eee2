package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a subscription tier. Plans are deactivated, never deleted.
type Plan struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Code               string    `json:"code" db:"code"`
	Name               string    `json:"name" db:"name"`
	MonthlyPrice       float64   `json:"monthly_price" db:"monthly_price"`
	YearlyMonthlyPrice float64   `json:"yearly_monthly_price" db:"yearly_monthly_price"`
	DurationDays       int       `json:"duration_days" db:"duration_days"`
	Active             bool      `json:"active" db:"active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// IsTrial reports whether the plan is free.
func (p *Plan) IsTrial() bool {
	return p.MonthlyPrice == 0
}

// PriceFor returns the amount charged for one billing period of the cycle.
func (p *Plan) PriceFor(cycle BillingCycle) float64 {
	if cycle == BillingCycleYearly {
		return p.YearlyMonthlyPrice * 12
	}
	return p.MonthlyPrice
}
