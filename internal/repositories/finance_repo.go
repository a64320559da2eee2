package repositories

import (
	"context"
	"time"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

// FinanceRepository runs the aggregate queries behind the finance reports.
// Monthly results are keyed by calendar month (1-12).
type FinanceRepository interface {
	MonthlyPayments(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error)
	MonthlyExpenses(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error)
	MonthlyPurchases(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error)
	ExpensesByCategory(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.CategoryTotal, error)
	SumPayments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error)
	SumExpenses(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error)
	SumTreatments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error)
	InventoryValue(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

type financeRepo struct {
	db DBTX
}

func NewFinanceRepository(db DBTX) FinanceRepository {
	return &financeRepo{db: db}
}

func (r *financeRepo) MonthlyPayments(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	query := `
		SELECT EXTRACT(MONTH FROM paid_at)::int AS month, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE created_by = $1 AND EXTRACT(YEAR FROM paid_at) = $2
		GROUP BY month
	`
	return r.monthlyTotals(ctx, query, ownerID, year)
}

func (r *financeRepo) MonthlyExpenses(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	query := `
		SELECT EXTRACT(MONTH FROM expense_date)::int AS month, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE created_by = $1 AND EXTRACT(YEAR FROM expense_date) = $2
		GROUP BY month
	`
	return r.monthlyTotals(ctx, query, ownerID, year)
}

// MonthlyPurchases sums stock value by the month the items were bought.
func (r *financeRepo) MonthlyPurchases(ctx context.Context, ownerID uuid.UUID, year int) (map[int]float64, error) {
	query := `
		SELECT EXTRACT(MONTH FROM purchase_date)::int AS month, COALESCE(SUM(unit_price * quantity), 0)
		FROM items
		WHERE created_by = $1 AND purchase_date IS NOT NULL AND EXTRACT(YEAR FROM purchase_date) = $2
		GROUP BY month
	`
	return r.monthlyTotals(ctx, query, ownerID, year)
}

func (r *financeRepo) monthlyTotals(ctx context.Context, query string, ownerID uuid.UUID, year int) (map[int]float64, error) {
	rows, err := r.db.Query(ctx, query, ownerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]float64)
	for rows.Next() {
		var month int
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		totals[month] = total
	}
	return totals, rows.Err()
}

func (r *financeRepo) ExpensesByCategory(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]models.CategoryTotal, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0) AS total
		FROM expenses
		WHERE created_by = $1 AND expense_date >= $2 AND expense_date <= $3
		GROUP BY category
		ORDER BY total DESC
	`
	rows, err := r.db.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *financeRepo) SumPayments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE created_by = $1 AND paid_at > $2 AND paid_at <= $3`
	return r.sum(ctx, query, ownerID, from, to)
}

func (r *financeRepo) SumExpenses(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE created_by = $1 AND expense_date > $2 AND expense_date <= $3`
	return r.sum(ctx, query, ownerID, from, to)
}

func (r *financeRepo) SumTreatments(ctx context.Context, ownerID uuid.UUID, from, to time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(cost), 0) FROM treatments WHERE created_by = $1 AND treatment_date > $2 AND treatment_date <= $3`
	return r.sum(ctx, query, ownerID, from, to)
}

func (r *financeRepo) InventoryValue(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(SUM(unit_price * quantity), 0) FROM items WHERE created_by = $1`
	return r.sum(ctx, query, ownerID)
}

func (r *financeRepo) sum(ctx context.Context, query string, args ...any) (float64, error) {
	var total float64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
