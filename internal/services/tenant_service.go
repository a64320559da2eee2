package services

import (
	"context"
	"errors"
	"fmt"

	"dentiq/internal/common"
	"dentiq/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantRepository is the shape shared by every owner-scoped repository.
type TenantRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*T, error)
}

// TenantService is the CRUD surface for records owned by one dentist.
// Records of another owner behave as if they did not exist.
type TenantService[T any] interface {
	Create(ctx context.Context, ownerID uuid.UUID, entity *T) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, entity *T) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*T, error)
}

// TenantInvalidator drops derived data of a tenant after a write.
type TenantInvalidator interface {
	InvalidateTenant(ctx context.Context, ownerID uuid.UUID)
}

type ownedPtr[T any] interface {
	*T
	models.Owned
}

type tenantService[T any, P ownedPtr[T]] struct {
	entity   string
	repo     TenantRepository[T]
	validate func(ctx context.Context, ownerID uuid.UUID, entity *T) error
	onWrite  TenantInvalidator
	log      *zap.Logger
}

func newTenantService[T any, P ownedPtr[T]](entity string, repo TenantRepository[T], validate func(context.Context, uuid.UUID, *T) error, log *zap.Logger) *tenantService[T, P] {
	return &tenantService[T, P]{entity: entity, repo: repo, validate: validate, log: log}
}

func (s *tenantService[T, P]) Create(ctx context.Context, ownerID uuid.UUID, entity *T) error {
	if err := s.validate(ctx, ownerID, entity); err != nil {
		return err
	}
	id := uuid.New()
	P(entity).SetKeys(id, ownerID)

	if err := s.repo.Create(ctx, entity); err != nil {
		return fmt.Errorf("create %s: %w", s.entity, err)
	}
	s.written(ctx, ownerID)
	s.log.Debug("record created", zap.String("entity", s.entity), zap.String("id", id.String()), zap.String("owner_id", ownerID.String()))
	return nil
}

func (s *tenantService[T, P]) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*T, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *tenantService[T, P]) Update(ctx context.Context, ownerID, id uuid.UUID, entity *T) error {
	if err := s.validate(ctx, ownerID, entity); err != nil {
		return err
	}
	P(entity).SetKeys(id, ownerID)

	if err := s.repo.Update(ctx, entity); err != nil {
		return fmt.Errorf("update %s: %w", s.entity, err)
	}
	s.written(ctx, ownerID)
	return nil
}

func (s *tenantService[T, P]) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete %s: %w", s.entity, err)
	}
	s.written(ctx, ownerID)
	return nil
}

func (s *tenantService[T, P]) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*T, error) {
	limit, offset = common.NormalizePagination(limit, offset)
	return s.repo.List(ctx, ownerID, limit, offset)
}

func (s *tenantService[T, P]) written(ctx context.Context, ownerID uuid.UUID) {
	if s.onWrite != nil {
		s.onWrite.InvalidateTenant(ctx, ownerID)
	}
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string]string

func (f fieldErrors) require(value, field string) {
	if err := common.RequireString(value, field); err != nil {
		f[field] = "is required"
	}
}

func (f fieldErrors) nonNegative(value float64, field string) {
	if value < 0 {
		f[field] = "must not be negative"
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &common.ValidationError{Fields: f}
}

// requireOwned checks that a referenced record exists for the same owner.
func requireOwned[T any](ctx context.Context, get func(context.Context, uuid.UUID, uuid.UUID) (*T, error), ownerID, id uuid.UUID, field string) error {
	_, err := get(ctx, ownerID, id)
	return referenceError(field, err)
}

func referenceError(field string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrNotFound) {
		return common.NewValidationError(field, "does not reference an existing record")
	}
	return fmt.Errorf("check %s: %w", field, err)
}
