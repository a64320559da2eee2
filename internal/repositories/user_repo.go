package repositories

import (
	"context"
	"strings"
	"time"

	"dentiq/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePlanState(ctx context.Context, id uuid.UUID, status models.PlanStatus, planID *uuid.UUID, expiration *time.Time) error
	TransitionPlanStatus(ctx context.Context, id uuid.UUID, from, to models.PlanStatus) (bool, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	MarkPhoneVerified(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	ListDentistIDs(ctx context.Context) ([]uuid.UUID, error)
	WithTx(tx pgx.Tx) UserRepository
}

type userRepo struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx pgx.Tx) UserRepository {
	return &userRepo{db: tx}
}

const userColumns = `id, username, email, password_hash, full_name, phone, role, plan_status, plan_id, expiration_date, email_verified, phone_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role, &u.PlanStatus,
		&u.PlanID, &u.ExpirationDate, &u.EmailVerified, &u.PhoneVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, full_name, phone, role, plan_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role, user.PlanStatus)
	return translateError("user", err)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("user", err)
	}
	return user, nil
}

// GetByLogin matches the email when login contains '@' and the username
// otherwise, case-insensitively. Usernames never contain '@'.
func (r *userRepo) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	column := "username"
	if strings.Contains(login, "@") {
		column = "email"
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(` + column + `) = LOWER($1)`
	user, err := scanUser(r.db.QueryRow(ctx, query, login))
	if err != nil {
		return nil, translateError("user", err)
	}
	return user, nil
}

func (r *userRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError("user", err)
	}
	return user, nil
}

func (r *userRepo) UpdatePlanState(ctx context.Context, id uuid.UUID, status models.PlanStatus, planID *uuid.UUID, expiration *time.Time) error {
	query := `
		UPDATE users
		SET plan_status = $1, plan_id = $2, expiration_date = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, planID, expiration, id)
	return expectAffected("user", tag, err)
}

// TransitionPlanStatus updates the status only while it still equals from.
func (r *userRepo) TransitionPlanStatus(ctx context.Context, id uuid.UUID, from, to models.PlanStatus) (bool, error) {
	query := `
		UPDATE users
		SET plan_status = $1, updated_at = NOW()
		WHERE id = $2 AND plan_status = $3
	`
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *userRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE plan_status = $1 AND expiration_date IS NOT NULL AND expiration_date < $2
		ORDER BY expiration_date
		LIMIT $3
	`
	return r.queryUsers(ctx, query, models.PlanStatusActive, now, limit)
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected("user", tag, err)
}

func (r *userRepo) MarkPhoneVerified(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET phone_verified = TRUE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return expectAffected("user", tag, err)
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryUsers(ctx, query, limit, offset)
}

func (r *userRepo) ListDentistIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE role = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, models.RoleDentist)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepo) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
