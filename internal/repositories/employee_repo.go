package repositories

import (
	"context"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Employee, error)
}

type employeeRepo struct {
	db DBTX
}

func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, created_by, full_name, position, phone, email, salary, hire_date, active, created_at, updated_at`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.CreatedBy, &e.FullName, &e.Position, &e.Phone, &e.Email, &e.Salary, &e.HireDate, &e.Active,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, created_by, full_name, position, phone, email, salary, hire_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.CreatedBy, employee.FullName, employee.Position, employee.Phone,
		employee.Email, employee.Salary, employee.HireDate, employee.Active)
	return translateError("employee", err)
}

func (r *employeeRepo) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE created_by = $1 AND id = $2`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		return nil, translateError("employee", err)
	}
	return employee, nil
}

func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET full_name = $1, position = $2, phone = $3, email = $4, salary = $5, hire_date = $6, active = $7, updated_at = NOW()
		WHERE created_by = $8 AND id = $9
	`
	tag, err := r.db.Exec(ctx, query, employee.FullName, employee.Position, employee.Phone, employee.Email, employee.Salary,
		employee.HireDate, employee.Active, employee.CreatedBy, employee.ID)
	return expectAffected("employee", tag, err)
}

func (r *employeeRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM employees WHERE created_by = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, ownerID, id)
	return expectAffected("employee", tag, err)
}

func (r *employeeRepo) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE created_by = $1
		ORDER BY full_name
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}
