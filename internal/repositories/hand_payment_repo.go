package repositories

import (
	"context"
	"fmt"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type HandPaymentRepository interface {
	Create(ctx context.Context, payment *models.HandPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.HandPayment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.HandPayment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, processedAt time.Time, processedBy uuid.UUID) error
	HasPending(ctx context.Context, userID uuid.UUID) (bool, error)
	ListByStatus(ctx context.Context, status models.PaymentStatus, limit, offset int) ([]*models.HandPayment, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error)
	WithTx(tx pgx.Tx) HandPaymentRepository
}

type handPaymentRepo struct {
	db DBTX
}

func NewHandPaymentRepository(db DBTX) HandPaymentRepository {
	return &handPaymentRepo{db: db}
}

func (r *handPaymentRepo) WithTx(tx pgx.Tx) HandPaymentRepository {
	return &handPaymentRepo{db: tx}
}

const handPaymentColumns = `id, user_id, plan_id, amount, billing_cycle, status, payment_method, notes, created_at, processed_at, processed_by`

func scanHandPayment(row pgx.Row) (*models.HandPayment, error) {
	p := &models.HandPayment{}
	err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.BillingCycle, &p.Status, &p.PaymentMethod, &p.Notes,
		&p.CreatedAt, &p.ProcessedAt, &p.ProcessedBy)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *handPaymentRepo) Create(ctx context.Context, payment *models.HandPayment) error {
	query := `
		INSERT INTO hand_payments (id, user_id, plan_id, amount, billing_cycle, status, payment_method, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.UserID, payment.PlanID, payment.Amount, payment.BillingCycle,
		payment.Status, payment.PaymentMethod, payment.Notes, payment.CreatedAt)
	return translateError("hand payment", err)
}

func (r *handPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.HandPayment, error) {
	query := `SELECT ` + handPaymentColumns + ` FROM hand_payments WHERE id = $1`
	payment, err := scanHandPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("hand payment", err)
	}
	return payment, nil
}

// GetForUpdate locks the payment row until the surrounding transaction ends.
func (r *handPaymentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.HandPayment, error) {
	query := `SELECT ` + handPaymentColumns + ` FROM hand_payments WHERE id = $1 FOR UPDATE`
	payment, err := scanHandPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("hand payment", err)
	}
	return payment, nil
}

// UpdateStatus applies the change only if the stored status still equals from.
func (r *handPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.PaymentStatus, processedAt time.Time, processedBy uuid.UUID) error {
	query := `
		UPDATE hand_payments
		SET status = $1, processed_at = $2, processed_by = $3
		WHERE id = $4 AND status = $5
	`
	tag, err := r.db.Exec(ctx, query, to, processedAt, processedBy, id, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("hand payment %s is no longer %s: %w", id, from, common.ErrIllegalTransition)
	}
	return nil
}

func (r *handPaymentRepo) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM hand_payments WHERE user_id = $1 AND status = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, models.PaymentStatusPending).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *handPaymentRepo) ListByStatus(ctx context.Context, status models.PaymentStatus, limit, offset int) ([]*models.HandPayment, error) {
	query := `
		SELECT ` + handPaymentColumns + `
		FROM hand_payments
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	return r.queryPayments(ctx, query, status, limit, offset)
}

func (r *handPaymentRepo) ListAll(ctx context.Context, limit, offset int) ([]*models.HandPayment, error) {
	query := `
		SELECT ` + handPaymentColumns + `
		FROM hand_payments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryPayments(ctx, query, limit, offset)
}

func (r *handPaymentRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.HandPayment, error) {
	query := `
		SELECT ` + handPaymentColumns + `
		FROM hand_payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryPayments(ctx, query, userID, limit, offset)
}

func (r *handPaymentRepo) queryPayments(ctx context.Context, query string, args ...any) ([]*models.HandPayment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.HandPayment
	for rows.Next() {
		payment, err := scanHandPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
