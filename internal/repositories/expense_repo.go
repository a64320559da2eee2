package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Expense, error)
}

type expenseRepo struct {
	db DBTX
}

func NewExpenseRepository(db DBTX) ExpenseRepository {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, created_by, title, category, amount, expense_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, expense.ID, expense.CreatedBy, expense.Title, expense.Category, expense.Amount,
		expense.ExpenseDate, expense.Notes)
	return translateError("expense", err)
}

func (r *expenseRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Expense, error) {
	expense := &models.Expense{}
	query := `
		SELECT id, created_by, title, category, amount, expense_date, notes, created_at, updated_at
		FROM expenses
		WHERE created_by = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, ownerID, id).Scan(&expense.ID, &expense.CreatedBy, &expense.Title, &expense.Category,
		&expense.Amount, &expense.ExpenseDate, &expense.Notes, &expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		return nil, translateError("expense", err)
	}
	return expense, nil
}

func (r *expenseRepo) Update(ctx context.Context, expense *models.Expense) error {
	query := `
		UPDATE expenses
		SET title = $1, category = $2, amount = $3, expense_date = $4, notes = $5, updated_at = NOW()
		WHERE created_by = $6 AND id = $7
	`
	tag, err := r.db.Exec(ctx, query, expense.Title, expense.Category, expense.Amount, expense.ExpenseDate, expense.Notes,
		expense.CreatedBy, expense.ID)
	return expectAffected("expense", tag, err)
}

func (r *expenseRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM expenses WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("expense", tag, err)
}

func (r *expenseRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Expense, error) {
	query := `
		SELECT id, created_by, title, category, amount, expense_date, notes, created_at, updated_at
		FROM expenses
		WHERE created_by = $1
		ORDER BY expense_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.CreatedBy, &expense.Title, &expense.Category, &expense.Amount,
			&expense.ExpenseDate, &expense.Notes, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}
