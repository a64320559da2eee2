package handlers

import (
	"net/http"

	"dentiq/internal/models"
	"dentiq/internal/repositories"
	"dentiq/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers covers user oversight for administrators
type AdminHandlers struct {
	users    repositories.UserRepository
	payments services.HandPaymentService
}

func NewAdminHandlers(users repositories.UserRepository, payments services.HandPaymentService) *AdminHandlers {
	return &AdminHandlers{users: users, payments: payments}
}

func (h *AdminHandlers) ListUsers(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(http.StatusOK, listResponse("users", users, limit, offset))
}

func (h *AdminHandlers) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandlers) UserPayments(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	payments, err := h.payments.ListForUser(c.Request().Context(), id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse("payments", paymentsOrEmpty(payments), limit, offset))
}

func (h *AdminHandlers) UserHistory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	entries, err := h.payments.History(c.Request().Context(), id, limit, offset)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []*models.BillingAuditEntry{}
	}
	return c.JSON(http.StatusOK, listResponse("history", entries, limit, offset))
}

// ExpireNow runs the overdue-plan sweep immediately.
func (h *AdminHandlers) ExpireNow(c echo.Context) error {
	n, err := h.payments.ExpireOverdue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"expired": n})
}
