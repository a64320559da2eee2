package handlers

import (
	"net/http"
	"time"

	"dentiq/internal/common"
	"dentiq/internal/middleware"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// FinanceHandlers serves the tenant finance reports
type FinanceHandlers struct {
	financeService services.FinanceService
	now            func() time.Time
}

func NewFinanceHandlers(financeService services.FinanceService) *FinanceHandlers {
	return &FinanceHandlers{financeService: financeService, now: time.Now}
}

// Cashflow godoc
// @Summary Monthly revenue and expenses for a year
// @Tags finance
// @Produce json
// @Param year query int false "Calendar year, defaults to the current one"
// @Success 200 {array} models.MonthlyCashflow
// @Security BearerAuth
// @Router /api/finance/cashflow [get]
func (h *FinanceHandlers) Cashflow(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	year, err := queryInt(c, "year", h.now().Year())
	if err != nil {
		return err
	}
	if year < 2000 || year > 2100 {
		return common.NewValidationError("year", "must be between 2000 and 2100")
	}

	rows, err := h.financeService.MonthlyCashflow(c.Request().Context(), user.ID, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"year": year, "months": rows})
}

func (h *FinanceHandlers) Categories(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	totals, err := h.financeService.CategoryBreakdown(c.Request().Context(), user.ID, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"categories": totals})
}

func (h *FinanceHandlers) Summary(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	summary, err := h.financeService.Summary(c.Request().Context(), user.ID, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
