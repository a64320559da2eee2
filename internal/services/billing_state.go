package services

import (
	"fmt"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"
)

type paymentTransition struct {
	from  models.PaymentStatus
	event models.BillingEvent
}

type planTransition struct {
	from  models.PlanStatus
	event models.BillingEvent
}

// paymentTransitions lists every legal hand payment move. A payment is
// processed exactly once.
var paymentTransitions = map[paymentTransition]models.PaymentStatus{
	{models.PaymentStatusPending, models.BillingEventConfirm}: models.PaymentStatusConfirmed,
	{models.PaymentStatusPending, models.BillingEventReject}:  models.PaymentStatusRejected,
}

// planTransitions lists every legal move of a user's plan status. A renewal
// can outlive the plan it extends, so REJECT is legal from every status
// that may hold a pending payment.
var planTransitions = map[planTransition]models.PlanStatus{
	{models.PlanStatusPending, models.BillingEventSubmit}:   models.PlanStatusWaiting,
	{models.PlanStatusInactive, models.BillingEventSubmit}:  models.PlanStatusWaiting,
	{models.PlanStatusActive, models.BillingEventSubmit}:    models.PlanStatusActive,
	{models.PlanStatusPending, models.BillingEventConfirm}:  models.PlanStatusActive,
	{models.PlanStatusWaiting, models.BillingEventConfirm}:  models.PlanStatusActive,
	{models.PlanStatusActive, models.BillingEventConfirm}:   models.PlanStatusActive,
	{models.PlanStatusInactive, models.BillingEventConfirm}: models.PlanStatusActive,
	{models.PlanStatusWaiting, models.BillingEventReject}:   models.PlanStatusPending,
	{models.PlanStatusActive, models.BillingEventReject}:    models.PlanStatusActive,
	{models.PlanStatusInactive, models.BillingEventReject}:  models.PlanStatusInactive,
	{models.PlanStatusPending, models.BillingEventReject}:   models.PlanStatusPending,
	{models.PlanStatusActive, models.BillingEventExpire}:    models.PlanStatusInactive,
}

// NextPaymentStatus returns the status a payment moves to on event.
func NextPaymentStatus(from models.PaymentStatus, event models.BillingEvent) (models.PaymentStatus, error) {
	to, ok := paymentTransitions[paymentTransition{from, event}]
	if !ok {
		return "", fmt.Errorf("payment %s on %s: %w", from, event, common.ErrIllegalTransition)
	}
	return to, nil
}

// NextPlanStatus returns the plan status a user moves to on event.
func NextPlanStatus(from models.PlanStatus, event models.BillingEvent) (models.PlanStatus, error) {
	to, ok := planTransitions[planTransition{from, event}]
	if !ok {
		return "", fmt.Errorf("plan status %s on %s: %w", from, event, common.ErrIllegalTransition)
	}
	return to, nil
}

const trialPeriodDays = 7

// ComputeExpiration returns the access end date for a confirmed payment.
// Zero-price plans get a fixed trial period regardless of cycle.
func ComputeExpiration(plan *models.Plan, cycle models.BillingCycle, now time.Time) time.Time {
	switch {
	case plan.IsTrial():
		return now.AddDate(0, 0, trialPeriodDays)
	case cycle == models.BillingCycleYearly:
		return now.AddDate(1, 0, 0)
	default:
		return now.AddDate(0, 1, 0)
	}
}

// IsExpired reports whether an ACTIVE user's access has lapsed at now.
func IsExpired(user *models.User, now time.Time) bool {
	return user.PlanStatus == models.PlanStatusActive &&
		user.ExpirationDate != nil &&
		now.After(*user.ExpirationDate)
}
