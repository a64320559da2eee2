package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	Update(ctx context.Context, plan *models.Plan) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListActive(ctx context.Context) ([]*models.Plan, error)
	ListAll(ctx context.Context) ([]*models.Plan, error)
	WithTx(tx pgx.Tx) PlanRepository
}

type planRepo struct {
	db DBTX
}

func NewPlanRepository(db DBTX) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) WithTx(tx pgx.Tx) PlanRepository {
	return &planRepo{db: tx}
}

const planColumns = `id, code, name, monthly_price, yearly_monthly_price, duration_days, active, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.Plan, error) {
	p := &models.Plan{}
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &p.MonthlyPrice, &p.YearlyMonthlyPrice, &p.DurationDays, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *planRepo) Create(ctx context.Context, plan *models.Plan) error {
	query := `
		INSERT INTO plans (id, code, name, monthly_price, yearly_monthly_price, duration_days, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Code, plan.Name, plan.MonthlyPrice, plan.YearlyMonthlyPrice, plan.DurationDays, plan.Active)
	return translateError("plan", err)
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("plan", err)
	}
	return plan, nil
}

func (r *planRepo) Update(ctx context.Context, plan *models.Plan) error {
	query := `
		UPDATE plans
		SET code = $1, name = $2, monthly_price = $3, yearly_monthly_price = $4, duration_days = $5, updated_at = NOW()
		WHERE id = $6
	`
	tag, err := r.db.Exec(ctx, query, plan.Code, plan.Name, plan.MonthlyPrice, plan.YearlyMonthlyPrice, plan.DurationDays, plan.ID)
	return expectAffected("plan", tag, err)
}

func (r *planRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE plans SET active = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, active, id)
	return expectAffected("plan", tag, err)
}

func (r *planRepo) ListActive(ctx context.Context) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE active = TRUE ORDER BY monthly_price, code`
	return r.queryPlans(ctx, query)
}

func (r *planRepo) ListAll(ctx context.Context) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY created_at DESC`
	return r.queryPlans(ctx, query)
}

func (r *planRepo) queryPlans(ctx context.Context, query string, args ...any) ([]*models.Plan, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
