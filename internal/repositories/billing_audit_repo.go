package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BillingAuditRepository stores the append-only log of billing transitions.
type BillingAuditRepository interface {
	Create(ctx context.Context, entry *models.BillingAuditEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error)
	WithTx(tx pgx.Tx) BillingAuditRepository
}

type billingAuditRepo struct {
	db DBTX
}

func NewBillingAuditRepository(db DBTX) BillingAuditRepository {
	return &billingAuditRepo{db: db}
}

func (r *billingAuditRepo) WithTx(tx pgx.Tx) BillingAuditRepository {
	return &billingAuditRepo{db: tx}
}

func (r *billingAuditRepo) Create(ctx context.Context, entry *models.BillingAuditEntry) error {
	query := `
		INSERT INTO billing_audit (id, payment_id, user_id, actor_id, event, from_payment_status, to_payment_status, from_plan_status, to_plan_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.PaymentID, entry.UserID, entry.ActorID, entry.Event,
		entry.FromPaymentStatus, entry.ToPaymentStatus, entry.FromPlanStatus, entry.ToPlanStatus, entry.CreatedAt)
	return err
}

func (r *billingAuditRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BillingAuditEntry, error) {
	query := `
		SELECT id, payment_id, user_id, actor_id, event, from_payment_status, to_payment_status, from_plan_status, to_plan_status, created_at
		FROM billing_audit
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.BillingAuditEntry
	for rows.Next() {
		e := &models.BillingAuditEntry{}
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.UserID, &e.ActorID, &e.Event, &e.FromPaymentStatus,
			&e.ToPaymentStatus, &e.FromPlanStatus, &e.ToPlanStatus, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
