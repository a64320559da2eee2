package handlers

import (
	"net/http"

	"dentiq/internal/models"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// PlanHandlers serves the plan catalogue
type PlanHandlers struct {
	planService services.PlanService
}

func NewPlanHandlers(planService services.PlanService) *PlanHandlers {
	return &PlanHandlers{planService: planService}
}

// PlanRequest represents the plan create/update payload
type PlanRequest struct {
	Code               string  `json:"code" validate:"required,max=32"`
	Name               string  `json:"name" validate:"required"`
	MonthlyPrice       float64 `json:"monthly_price" validate:"gte=0"`
	YearlyMonthlyPrice float64 `json:"yearly_monthly_price" validate:"gte=0"`
	DurationDays       int     `json:"duration_days" validate:"gt=0"`
}

func (r PlanRequest) input() services.PlanInput {
	return services.PlanInput{
		Code:               r.Code,
		Name:               r.Name,
		MonthlyPrice:       r.MonthlyPrice,
		YearlyMonthlyPrice: r.YearlyMonthlyPrice,
		DurationDays:       r.DurationDays,
	}
}

func plansOrEmpty(plans []*models.Plan) []*models.Plan {
	if plans == nil {
		return []*models.Plan{}
	}
	return plans
}

// ListActive godoc
// @Summary List plans open for subscription
// @Tags plans
// @Produce json
// @Success 200 {array} models.Plan
// @Router /api/plans [get]
func (h *PlanHandlers) ListActive(c echo.Context) error {
	plans, err := h.planService.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": plansOrEmpty(plans)})
}

func (h *PlanHandlers) ListAll(c echo.Context) error {
	plans, err := h.planService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": plansOrEmpty(plans)})
}

func (h *PlanHandlers) Create(c echo.Context) error {
	var req PlanRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	plan, err := h.planService.Create(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandlers) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PlanRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	plan, err := h.planService.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// Deactivate hides a plan from new submissions; existing subscribers keep it.
func (h *PlanHandlers) Deactivate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.planService.Deactivate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
