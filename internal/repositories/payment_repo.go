package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error)
}

type paymentRepo struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, created_by, patient_id, treatment_id, amount, method, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	if err := row.Scan(&p.ID, &p.CreatedBy, &p.PatientID, &p.TreatmentID, &p.Amount, &p.Method, &p.PaidAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, created_by, patient_id, treatment_id, amount, method, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.CreatedBy, payment.PatientID, payment.TreatmentID, payment.Amount,
		payment.Method, payment.PaidAt)
	return translateError("payment", err)
}

func (r *paymentRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE created_by = $1 AND id = $2`
	payment, err := scanPayment(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("payment", err)
	}
	return payment, nil
}

func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET patient_id = $1, treatment_id = $2, amount = $3, method = $4, paid_at = $5, updated_at = NOW()
		WHERE created_by = $6 AND id = $7
	`
	tag, err := r.db.Exec(ctx, query, payment.PatientID, payment.TreatmentID, payment.Amount, payment.Method, payment.PaidAt,
		payment.CreatedBy, payment.ID)
	return expectAffected("payment", tag, err)
}

func (r *paymentRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("payment", tag, err)
}

func (r *paymentRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE created_by = $1
		ORDER BY paid_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
