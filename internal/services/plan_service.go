package services

import (
	"context"
	"fmt"
	"strings"

	"dentiq/internal/common"
	"dentiq/internal/models"
	"dentiq/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanService manages the subscription plan catalogue. Plans are never
// hard-deleted; deactivation hides them from new submissions.
type PlanService interface {
	ListActive(ctx context.Context) ([]*models.Plan, error)
	ListAll(ctx context.Context) ([]*models.Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	Create(ctx context.Context, input PlanInput) (*models.Plan, error)
	Update(ctx context.Context, id uuid.UUID, input PlanInput) (*models.Plan, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type PlanInput struct {
	Code               string
	Name               string
	MonthlyPrice       float64
	YearlyMonthlyPrice float64
	DurationDays       int
}

type planService struct {
	plans repositories.PlanRepository
	log   *zap.Logger
}

func NewPlanService(plans repositories.PlanRepository, log *zap.Logger) PlanService {
	return &planService{plans: plans, log: log}
}

func (s *planService) ListActive(ctx context.Context) ([]*models.Plan, error) {
	return s.plans.ListActive(ctx)
}

func (s *planService) ListAll(ctx context.Context) ([]*models.Plan, error) {
	return s.plans.ListAll(ctx)
}

func (s *planService) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	return s.plans.GetByID(ctx, id)
}

func (s *planService) Create(ctx context.Context, input PlanInput) (*models.Plan, error) {
	input, err := validatePlanInput(input)
	if err != nil {
		return nil, err
	}

	plan := &models.Plan{
		ID:                 uuid.New(),
		Code:               input.Code,
		Name:               input.Name,
		MonthlyPrice:       input.MonthlyPrice,
		YearlyMonthlyPrice: input.YearlyMonthlyPrice,
		DurationDays:       input.DurationDays,
		Active:             true,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}

	s.log.Info("plan created", zap.String("plan_id", plan.ID.String()), zap.String("code", plan.Code))
	return plan, nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, input PlanInput) (*models.Plan, error) {
	input, err := validatePlanInput(input)
	if err != nil {
		return nil, err
	}

	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	plan.Code = input.Code
	plan.Name = input.Name
	plan.MonthlyPrice = input.MonthlyPrice
	plan.YearlyMonthlyPrice = input.YearlyMonthlyPrice
	plan.DurationDays = input.DurationDays

	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return plan, nil
}

func (s *planService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.plans.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.log.Info("plan deactivated", zap.String("plan_id", id.String()))
	return nil
}

func validatePlanInput(input PlanInput) (PlanInput, error) {
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	input.Name = strings.TrimSpace(input.Name)

	verr := &common.ValidationError{Fields: map[string]string{}}
	if input.Code == "" {
		verr.Fields["code"] = "is required"
	}
	if input.Name == "" {
		verr.Fields["name"] = "is required"
	}
	if input.MonthlyPrice < 0 {
		verr.Fields["monthly_price"] = "must not be negative"
	}
	if input.YearlyMonthlyPrice < 0 {
		verr.Fields["yearly_monthly_price"] = "must not be negative"
	}
	if input.DurationDays <= 0 {
		verr.Fields["duration_days"] = "must be positive"
	}
	if len(verr.Fields) > 0 {
		return input, verr
	}
	return input, nil
}
