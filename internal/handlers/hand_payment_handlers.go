package handlers

import (
	"context"
	"net/http"

	"dentiq/internal/common"
	"dentiq/internal/middleware"
	"dentiq/internal/models"
	"dentiq/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HandPaymentHandlers exposes the manual subscription payment workflow
type HandPaymentHandlers struct {
	paymentService services.HandPaymentService
}

func NewHandPaymentHandlers(paymentService services.HandPaymentService) *HandPaymentHandlers {
	return &HandPaymentHandlers{paymentService: paymentService}
}

// CreateHandPaymentRequest represents a dentist's payment submission
type CreateHandPaymentRequest struct {
	PlanID        string   `json:"plan_id" validate:"required,uuid"`
	BillingCycle  string   `json:"billing_cycle" validate:"omitempty,oneof=MONTHLY YEARLY monthly yearly"`
	Amount        *float64 `json:"amount" validate:"omitempty,gte=0"`
	PaymentMethod *string  `json:"payment_method" validate:"omitempty,max=64"`
	Notes         *string  `json:"notes" validate:"omitempty,max=1000"`
}

func paymentsOrEmpty(payments []*models.HandPayment) []*models.HandPayment {
	if payments == nil {
		return []*models.HandPayment{}
	}
	return payments
}

// Create godoc
// @Summary Submit a hand payment for a plan
// @Tags hand-payments
// @Accept json
// @Produce json
// @Param body body CreateHandPaymentRequest true "Payment"
// @Success 201 {object} models.HandPayment
// @Security BearerAuth
// @Router /api/hand-payments/create [post]
func (h *HandPaymentHandlers) Create(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	var req CreateHandPaymentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	planID, err := common.ValidateUUID(req.PlanID, "plan_id")
	if err != nil {
		return err
	}

	payment, err := h.paymentService.Create(c.Request().Context(), user.ID, services.CreateHandPaymentInput{
		PlanID:        planID,
		BillingCycle:  models.BillingCycle(req.BillingCycle),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payment)
}

// Confirm godoc
// @Summary Confirm a pending hand payment and activate the plan
// @Tags hand-payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} models.HandPayment
// @Security BearerAuth
// @Router /api/hand-payments/confirm/{id} [post]
func (h *HandPaymentHandlers) Confirm(c echo.Context) error {
	return h.process(c, h.paymentService.Confirm)
}

// Reject godoc
// @Summary Reject a pending hand payment
// @Tags hand-payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} models.HandPayment
// @Security BearerAuth
// @Router /api/hand-payments/reject/{id} [post]
func (h *HandPaymentHandlers) Reject(c echo.Context) error {
	return h.process(c, h.paymentService.Reject)
}

func (h *HandPaymentHandlers) process(c echo.Context, apply func(ctx context.Context, paymentID, adminID uuid.UUID) (*models.HandPayment, error)) error {
	admin, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	payment, err := apply(c.Request().Context(), id, admin.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *HandPaymentHandlers) Pending(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	payments, err := h.paymentService.ListPending(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("payments", paymentsOrEmpty(payments), limit, offset))
}

func (h *HandPaymentHandlers) All(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	payments, err := h.paymentService.ListAll(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("payments", paymentsOrEmpty(payments), limit, offset))
}

func (h *HandPaymentHandlers) Mine(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	payments, err := h.paymentService.ListForUser(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("payments", paymentsOrEmpty(payments), limit, offset))
}

// History lists the billing transitions applied to the current user
func (h *HandPaymentHandlers) History(c echo.Context) error {
	user, err := middleware.CurrentUser(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	entries, err := h.paymentService.History(c.Request().Context(), user.ID, limit, offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*models.BillingAuditEntry{}
	}
	return c.JSON(http.StatusOK, listResponse("history", entries, limit, offset))
}
