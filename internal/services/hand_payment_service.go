package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/events"
	"dentiq/internal/metrics"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const expirationBatchSize = 100

// HandPaymentService drives the manual subscription payment lifecycle.
type HandPaymentService interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateHandPaymentInput) (*models.HandPayment, error)
	Confirm(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error)
	Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error)
	CheckAndUpdateExpiration(ctx context.Context, user *models.User) (*models.User, error)
	ExpireOverdue(ctx context.Context) (int, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.HandPayment, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error)
}

// CreateHandPaymentInput describes a payment submitted by a dentist.
// Amount defaults to the plan price for the billing cycle.
type CreateHandPaymentInput struct {
	PlanID        uuid.UUID
	BillingCycle  models.BillingCycle
	Amount        *float64
	PaymentMethod *string
	Notes         *string
}

type handPaymentService struct {
	tx        repositories.TxRunner
	payments  repositories.HandPaymentRepository
	users     repositories.UserRepository
	plans     repositories.PlanRepository
	audit     repositories.BillingAuditRepository
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewHandPaymentService(
	tx repositories.TxRunner,
	payments repositories.HandPaymentRepository,
	users repositories.UserRepository,
	plans repositories.PlanRepository,
	audit repositories.BillingAuditRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
) HandPaymentService {
	return &handPaymentService{
		tx:        tx,
		payments:  payments,
		users:     users,
		plans:     plans,
		audit:     audit,
		publisher: publisher,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

func (s *handPaymentService) Create(ctx context.Context, userID uuid.UUID, input CreateHandPaymentInput) (*models.HandPayment, error) {
	cycle, err := normalizeCycle(input.BillingCycle)
	if err != nil {
		return nil, err
	}
	if input.Amount != nil && *input.Amount < 0 {
		return nil, common.NewValidationError("amount", "must not be negative")
	}

	now := s.now().UTC()
	var payment *models.HandPayment
	var user *models.User
	var fromStatus models.PlanStatus

	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		plan, err := s.plans.WithTx(tx).GetByID(ctx, input.PlanID)
		if err != nil {
			return err
		}
		if !plan.Active {
			return fmt.Errorf("plan %s: %w", plan.Code, common.ErrPlanInactive)
		}

		users := s.users.WithTx(tx)
		user, err = users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		fromStatus = user.PlanStatus
		next, err := NextPlanStatus(user.PlanStatus, models.BillingEventSubmit)
		if err != nil {
			return err
		}

		payments := s.payments.WithTx(tx)
		pending, err := payments.HasPending(ctx, userID)
		if err != nil {
			return fmt.Errorf("check pending payments: %w", err)
		}
		if pending {
			return fmt.Errorf("user already has a pending payment: %w", common.ErrConflict)
		}

		amount := plan.PriceFor(cycle)
		if input.Amount != nil {
			amount = *input.Amount
		}
		payment = &models.HandPayment{
			ID:            uuid.New(),
			UserID:        userID,
			PlanID:        plan.ID,
			Amount:        amount,
			BillingCycle:  cycle,
			Status:        models.PaymentStatusPending,
			PaymentMethod: trimOptional(input.PaymentMethod),
			Notes:         trimOptional(input.Notes),
			CreatedAt:     now,
		}
		if err := payments.Create(ctx, payment); err != nil {
			return fmt.Errorf("create hand payment: %w", err)
		}

		if next != user.PlanStatus {
			if err := users.UpdatePlanState(ctx, user.ID, next, user.PlanID, user.ExpirationDate); err != nil {
				return fmt.Errorf("update plan status: %w", err)
			}
			user.PlanStatus = next
		}

		pendingStatus := models.PaymentStatusPending
		return s.audit.WithTx(tx).Create(ctx, &models.BillingAuditEntry{
			ID:              uuid.New(),
			PaymentID:       &payment.ID,
			UserID:          userID,
			ActorID:         &userID,
			Event:           models.BillingEventSubmit,
			ToPaymentStatus: &pendingStatus,
			FromPlanStatus:  fromStatus,
			ToPlanStatus:    next,
			CreatedAt:       now,
		})
	})
	s.metrics.BillingTransition(string(models.BillingEventSubmit), err)
	if err != nil {
		return nil, err
	}

	s.log.Info("hand payment submitted",
		zap.String("payment_id", payment.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("plan_status", string(user.PlanStatus)))
	s.publish(ctx, events.KeyBillingSubmitted, payment, user, models.BillingEventSubmit, now)
	return payment, nil
}

// Confirm marks a pending payment CONFIRMED and activates the owner's plan.
// The payment and user rows are locked for the whole transaction.
func (s *handPaymentService) Confirm(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error) {
	now := s.now().UTC()
	var payment *models.HandPayment
	var user *models.User

	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		payments := s.payments.WithTx(tx)
		var err error
		payment, err = payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		fromPayment := payment.Status
		toPayment, err := NextPaymentStatus(fromPayment, models.BillingEventConfirm)
		if err != nil {
			return err
		}

		plan, err := s.plans.WithTx(tx).GetByID(ctx, payment.PlanID)
		if err != nil {
			return err
		}

		users := s.users.WithTx(tx)
		user, err = users.GetForUpdate(ctx, payment.UserID)
		if err != nil {
			return err
		}
		fromPlan := user.PlanStatus
		toPlan, err := NextPlanStatus(fromPlan, models.BillingEventConfirm)
		if err != nil {
			return err
		}

		if err := payments.UpdateStatus(ctx, paymentID, fromPayment, toPayment, now, adminID); err != nil {
			return err
		}

		expiration := ComputeExpiration(plan, payment.BillingCycle, now)
		if err := users.UpdatePlanState(ctx, user.ID, toPlan, &plan.ID, &expiration); err != nil {
			return fmt.Errorf("activate plan: %w", err)
		}

		payment.Status = toPayment
		payment.ProcessedAt = &now
		payment.ProcessedBy = &adminID
		user.PlanStatus = toPlan
		user.PlanID = &plan.ID
		user.ExpirationDate = &expiration

		return s.audit.WithTx(tx).Create(ctx, &models.BillingAuditEntry{
			ID:                uuid.New(),
			PaymentID:         &payment.ID,
			UserID:            user.ID,
			ActorID:           &adminID,
			Event:             models.BillingEventConfirm,
			FromPaymentStatus: &fromPayment,
			ToPaymentStatus:   &toPayment,
			FromPlanStatus:    fromPlan,
			ToPlanStatus:      toPlan,
			CreatedAt:         now,
		})
	})
	s.metrics.BillingTransition(string(models.BillingEventConfirm), err)
	if err != nil {
		return nil, err
	}

	s.log.Info("hand payment confirmed",
		zap.String("payment_id", paymentID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("admin_id", adminID.String()),
		zap.Time("expiration_date", *user.ExpirationDate))
	s.publish(ctx, events.KeyBillingConfirmed, payment, user, models.BillingEventConfirm, now)
	return payment, nil
}

// Reject marks a pending payment REJECTED and returns a waiting user to
// PENDING. Users in any other status keep it.
func (s *handPaymentService) Reject(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error) {
	now := s.now().UTC()
	var payment *models.HandPayment
	var user *models.User

	err := s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		payments := s.payments.WithTx(tx)
		var err error
		payment, err = payments.GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		fromPayment := payment.Status
		toPayment, err := NextPaymentStatus(fromPayment, models.BillingEventReject)
		if err != nil {
			return err
		}

		users := s.users.WithTx(tx)
		user, err = users.GetForUpdate(ctx, payment.UserID)
		if err != nil {
			return err
		}
		fromPlan := user.PlanStatus
		toPlan, err := NextPlanStatus(fromPlan, models.BillingEventReject)
		if err != nil {
			return err
		}

		if err := payments.UpdateStatus(ctx, paymentID, fromPayment, toPayment, now, adminID); err != nil {
			return err
		}
		if toPlan != fromPlan {
			if err := users.UpdatePlanState(ctx, user.ID, toPlan, user.PlanID, user.ExpirationDate); err != nil {
				return fmt.Errorf("revert plan status: %w", err)
			}
			user.PlanStatus = toPlan
		}

		payment.Status = toPayment
		payment.ProcessedAt = &now
		payment.ProcessedBy = &adminID

		return s.audit.WithTx(tx).Create(ctx, &models.BillingAuditEntry{
			ID:                uuid.New(),
			PaymentID:         &payment.ID,
			UserID:            user.ID,
			ActorID:           &adminID,
			Event:             models.BillingEventReject,
			FromPaymentStatus: &fromPayment,
			ToPaymentStatus:   &toPayment,
			FromPlanStatus:    fromPlan,
			ToPlanStatus:      toPlan,
			CreatedAt:         now,
		})
	})
	s.metrics.BillingTransition(string(models.BillingEventReject), err)
	if err != nil {
		return nil, err
	}

	s.log.Info("hand payment rejected",
		zap.String("payment_id", paymentID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("admin_id", adminID.String()))
	s.publish(ctx, events.KeyBillingRejected, payment, user, models.BillingEventReject, now)
	return payment, nil
}

// CheckAndUpdateExpiration flips an overdue ACTIVE user to INACTIVE and
// returns the user as stored afterwards.
func (s *handPaymentService) CheckAndUpdateExpiration(ctx context.Context, user *models.User) (*models.User, error) {
	now := s.now().UTC()
	if !IsExpired(user, now) {
		return user, nil
	}
	changed, err := s.expire(ctx, user, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return s.users.GetByID(ctx, user.ID)
	}
	return user, nil
}

// ExpireOverdue sweeps all overdue ACTIVE users in batches.
func (s *handPaymentService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now().UTC()
	expired := 0
	for {
		users, err := s.users.ListExpired(ctx, now, expirationBatchSize)
		if err != nil {
			return expired, fmt.Errorf("list expired users: %w", err)
		}

		changedInBatch := 0
		for _, user := range users {
			if err := ctx.Err(); err != nil {
				return expired, err
			}
			changed, err := s.expire(ctx, user, now)
			if err != nil {
				return expired, err
			}
			if changed {
				changedInBatch++
			}
		}
		expired += changedInBatch

		if len(users) < expirationBatchSize || changedInBatch == 0 {
			break
		}
	}

	s.metrics.UsersExpired(expired)
	return expired, nil
}

// expire applies EXPIRE to user. It reports false when another writer
// changed the status first.
func (s *handPaymentService) expire(ctx context.Context, user *models.User, now time.Time) (bool, error) {
	next, err := NextPlanStatus(user.PlanStatus, models.BillingEventExpire)
	if err != nil {
		return false, err
	}

	changed := false
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		var txErr error
		changed, txErr = s.users.WithTx(tx).TransitionPlanStatus(ctx, user.ID, user.PlanStatus, next)
		if txErr != nil || !changed {
			return txErr
		}
		return s.audit.WithTx(tx).Create(ctx, &models.BillingAuditEntry{
			ID:             uuid.New(),
			UserID:         user.ID,
			Event:          models.BillingEventExpire,
			FromPlanStatus: user.PlanStatus,
			ToPlanStatus:   next,
			CreatedAt:      now,
		})
	})
	s.metrics.BillingTransition(string(models.BillingEventExpire), err)
	if err != nil {
		return false, fmt.Errorf("expire user %s: %w", user.ID, err)
	}
	if !changed {
		return false, nil
	}

	user.PlanStatus = next
	s.log.Info("plan expired", zap.String("user_id", user.ID.String()))
	s.publish(ctx, events.KeyBillingExpired, nil, user, models.BillingEventExpire, now)
	return true, nil
}

func (s *handPaymentService) ListPending(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	limit, offset = common.NormalizePagination(limit, offset)
	return s.payments.ListByStatus(ctx, models.PaymentStatusPending, limit, offset)
}

func (s *handPaymentService) ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	limit, offset = common.NormalizePagination(limit, offset)
	return s.payments.ListAll(ctx, limit, offset)
}

func (s *handPaymentService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error) {
	limit, offset = common.NormalizePagination(limit, offset)
	return s.payments.ListByUser(ctx, userID, limit, offset)
}

func (s *handPaymentService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error) {
	limit, offset = common.NormalizePagination(limit, offset)
	return s.audit.ListByUser(ctx, userID, limit, offset)
}

// publish runs after commit. Broker failures are logged, never returned.
func (s *handPaymentService) publish(ctx context.Context, key string, payment *models.HandPayment, user *models.User, event models.BillingEvent, at time.Time) {
	evt := events.BillingEvent{
		UserID:         user.ID,
		PlanID:         user.PlanID,
		Event:          string(event),
		PlanStatus:     string(user.PlanStatus),
		ExpirationDate: user.ExpirationDate,
		OccurredAt:     at,
	}
	if payment != nil {
		evt.PaymentID = &payment.ID
		evt.PlanID = &payment.PlanID
		evt.PaymentStatus = string(payment.Status)
	}
	if err := s.publisher.Publish(ctx, key, evt); err != nil {
		s.log.Warn("failed to publish billing event", zap.String("routing_key", key), zap.Error(err))
	}
}

func normalizeCycle(cycle models.BillingCycle) (models.BillingCycle, error) {
	switch models.BillingCycle(strings.ToUpper(string(cycle))) {
	case "", models.BillingCycleMonthly:
		return models.BillingCycleMonthly, nil
	case models.BillingCycleYearly:
		return models.BillingCycleYearly, nil
	default:
		return "", common.NewValidationError("billing_cycle", "must be MONTHLY or YEARLY")
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
